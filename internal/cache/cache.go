package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/agrihub/inventory-service/internal/metrics"
)

// DefaultTTL bounds how stale any served aggregation result can be
const DefaultTTL = 30 * time.Second

// Query kinds used as cache key segments
const (
	KindInventory   = "inventory"
	KindFinancial   = "financial"
	KindTrend       = "trend"
	KindTop         = "top"
	KindComparison  = "comparison"
	KindRecent      = "recent"
	KindStockAlerts = "alerts"
)

type localItem struct {
	value     []byte
	expiresAt time.Time
}

// MetricsCache memoizes aggregation results under (tenant, kind, period)
// keys with a short TTL. Redis is optional; the in-process map always runs.
// Concurrent misses for one key collapse into a single computation.
type MetricsCache struct {
	redis  *redis.Client
	logger *logrus.Logger
	ttl    time.Duration

	mu    sync.RWMutex
	local map[string]localItem
	group singleflight.Group
}

// New creates a metrics cache. redisClient may be nil.
func New(redisClient *redis.Client, logger *logrus.Logger, ttl time.Duration) *MetricsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MetricsCache{
		redis:  redisClient,
		logger: logger,
		ttl:    ttl,
		local:  make(map[string]localItem),
	}
}

func cacheKey(tenantID, kind, periodKey string) string {
	return fmt.Sprintf("metrics:%s:%s:%s", tenantID, kind, periodKey)
}

func tenantPrefix(tenantID string) string {
	return fmt.Sprintf("metrics:%s:", tenantID)
}

// Fetch returns the cached result for (tenant, kind, periodKey) into dest,
// or computes, caches, and returns it. A cancelled or failed computation is
// never cached, so partial results cannot be served later.
func (c *MetricsCache) Fetch(ctx context.Context, tenantID, kind, periodKey string, dest interface{}, compute func(context.Context) (interface{}, error)) error {
	key := cacheKey(tenantID, kind, periodKey)

	if data := c.getLocal(key); data != nil {
		metrics.CacheHits.WithLabelValues(kind).Inc()
		return json.Unmarshal(data, dest)
	}

	if c.redis != nil {
		data, err := c.redis.Get(ctx, key).Bytes()
		if err == nil {
			c.setLocal(key, data)
			metrics.CacheHits.WithLabelValues(kind).Inc()
			return json.Unmarshal(data, dest)
		}
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Redis cache read failed")
		}
	}

	metrics.CacheMisses.WithLabelValues(kind).Inc()

	data, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		c.setLocal(key, payload)
		if c.redis != nil {
			if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
				c.logger.WithError(err).Warn("Redis cache write failed")
			}
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(data.([]byte), dest)
}

// InvalidateTenant drops every cache entry for the tenant. Invalidation is
// deliberately coarse: a movement write clears the whole tenant rather than
// computing the smallest affected key subset.
func (c *MetricsCache) InvalidateTenant(ctx context.Context, tenantID string) {
	prefix := tenantPrefix(tenantID)

	c.mu.Lock()
	for key := range c.local {
		if strings.HasPrefix(key, prefix) {
			delete(c.local, key)
		}
	}
	c.mu.Unlock()

	if c.redis != nil {
		iter := c.redis.Scan(ctx, 0, prefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			c.logger.WithError(err).Warn("Redis cache invalidation scan failed")
		}
		if len(keys) > 0 {
			if err := c.redis.Del(ctx, keys...).Err(); err != nil {
				c.logger.WithError(err).Warn("Redis cache invalidation failed")
			}
		}
	}
}

func (c *MetricsCache) getLocal(key string) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.local[key]
	if !ok || time.Now().After(item.expiresAt) {
		return nil
	}
	return item.value
}

func (c *MetricsCache) setLocal(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Opportunistic sweep keeps the map from accumulating expired tenants.
	if len(c.local) > 4096 {
		now := time.Now()
		for k, item := range c.local {
			if now.After(item.expiresAt) {
				delete(c.local, k)
			}
		}
	}
	c.local[key] = localItem{value: value, expiresAt: time.Now().Add(c.ttl)}
}
