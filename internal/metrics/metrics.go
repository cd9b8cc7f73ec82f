package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheHits counts metric cache hits by query kind
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_cache_hits_total",
		Help: "Metric cache hits by query kind",
	}, []string{"kind"})

	// CacheMisses counts metric cache misses by query kind
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_cache_misses_total",
		Help: "Metric cache misses by query kind",
	}, []string{"kind"})

	// AggregationDuration observes aggregation latency by query kind
	AggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_aggregation_duration_seconds",
		Help:    "Aggregation computation latency by query kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// MovementsRecorded counts recorded stock movements by direction
	MovementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_movements_recorded_total",
		Help: "Stock movements recorded by direction",
	}, []string{"direction"})
)

// Handler exposes the prometheus registry on a gin route
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
