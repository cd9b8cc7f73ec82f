package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/middleware"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
	"github.com/agrihub/inventory-service/internal/services"
)

// DashboardHandlers serves the aggregated dashboard widgets
type DashboardHandlers struct {
	service *services.AggregationService
	logger  *logrus.Logger
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(service *services.AggregationService, logger *logrus.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		service: service,
		logger:  logger,
	}
}

// GetInventoryMetrics retrieves the live stock position
// GET /api/v1/dashboard/inventory
func (h *DashboardHandlers) GetInventoryMetrics(c *gin.Context) {
	metrics, err := h.service.GetInventoryMetrics(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get inventory metrics")
		respondError(c, err)
		return
	}
	respondOK(c, metrics)
}

// GetStockAlerts retrieves products at or below the low-stock threshold
// GET /api/v1/dashboard/alerts
func (h *DashboardHandlers) GetStockAlerts(c *gin.Context) {
	alerts, err := h.service.GetStockAlerts(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get stock alerts")
		respondError(c, err)
		return
	}
	respondOK(c, alerts)
}

// GetFinancialMetrics retrieves period money totals
// GET /api/v1/dashboard/financial
func (h *DashboardHandlers) GetFinancialMetrics(c *gin.Context) {
	period, err := parsePeriod(c)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics, err := h.service.GetFinancialMetrics(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c), period)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get financial metrics")
		respondError(c, err)
		return
	}
	respondOK(c, metrics)
}

// GetTrends retrieves the daily in/out quantity series
// GET /api/v1/dashboard/trends
func (h *DashboardHandlers) GetTrends(c *gin.Context) {
	period, err := parsePeriod(c)
	if err != nil {
		respondError(c, err)
		return
	}

	series, err := h.service.GetTrendSeries(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c), period)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get trend series")
		respondError(c, err)
		return
	}
	respondOK(c, series)
}

// GetTopEntities retrieves a top-N ranking
// GET /api/v1/dashboard/top/:kind
func (h *DashboardHandlers) GetTopEntities(c *gin.Context) {
	period, err := parsePeriod(c)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	ranked, err := h.service.GetTopEntities(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c), period,
		models.TopKind(c.Param("kind")), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get top entities")
		respondError(c, err)
		return
	}
	respondOK(c, ranked)
}

// GetComparison retrieves the current-vs-previous period comparison
// GET /api/v1/dashboard/comparison
func (h *DashboardHandlers) GetComparison(c *gin.Context) {
	period, err := parsePeriod(c)
	if err != nil {
		respondError(c, err)
		return
	}

	comparison, err := h.service.GetPerformanceComparison(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c), period)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get performance comparison")
		respondError(c, err)
		return
	}
	respondOK(c, comparison)
}

// GetRecentTransactions retrieves the latest movements
// GET /api/v1/dashboard/recent
func (h *DashboardHandlers) GetRecentTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	recent, err := h.service.GetRecentTransactions(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent transactions")
		respondError(c, err)
		return
	}
	respondOK(c, recent)
}

// parsePeriod resolves the period from query parameters. A named selector
// comes from ?period=; explicit ?from=/?to= dates (inclusive calendar
// days) build a custom range, with the exclusive end at the start of the
// day after ?to=.
func parsePeriod(c *gin.Context) (periods.Period, error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	if fromStr != "" || toStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return periods.Period{}, periods.ErrInvalidPeriod
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return periods.Period{}, periods.ErrInvalidPeriod
		}
		return periods.ResolveCustom(from, to.AddDate(0, 0, 1))
	}

	return periods.Resolve(periods.Selector(c.Query("period")), time.Now())
}
