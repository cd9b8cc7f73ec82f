package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/cache"
	"github.com/agrihub/inventory-service/internal/metrics"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
	"github.com/agrihub/inventory-service/internal/repository"
)

// DefaultTopLimit caps top-N rankings when the caller does not ask for a
// specific size
const DefaultTopLimit = 5

// DefaultRecentLimit is the recent-transactions widget size
const DefaultRecentLimit = 10

var hundred = decimal.NewFromInt(100)

// AggregationService computes the dashboard widgets. Every read is
// authorized, tenant-scoped, and memoized through the metrics cache;
// widgets fail independently so one broken query degrades one card, not
// the whole dashboard.
type AggregationService struct {
	store             repository.MovementStore
	cache             *cache.MetricsCache
	logger            *logrus.Logger
	lowStockThreshold decimal.Decimal
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(store repository.MovementStore, metricsCache *cache.MetricsCache,
	lowStockThreshold decimal.Decimal, logger *logrus.Logger) *AggregationService {
	return &AggregationService{
		store:             store,
		cache:             metricsCache,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
	}
}

// GetInventoryMetrics returns the tenant's live stock position. Stock is
// valued at each product's current price, not the prices copied onto
// historical movements.
func (s *AggregationService) GetInventoryMetrics(ctx context.Context, actor *models.User, tenantID string) (*models.InventoryMetrics, error) {
	scope, err := s.authorize(actor, authz.ActionViewReports, tenantID)
	if err != nil {
		return nil, err
	}

	var result models.InventoryMetrics
	err = s.cache.Fetch(ctx, tenantID, cache.KindInventory, "live", &result, func(ctx context.Context) (interface{}, error) {
		defer s.observe(cache.KindInventory)()

		rows, err := s.store.StockByProduct(ctx, scope)
		if err != nil {
			return nil, err
		}
		return buildInventoryMetrics(rows), nil
	})
	return &result, widgetErr("inventory metrics", err)
}

func buildInventoryMetrics(rows []repository.ProductStockRow) *models.InventoryMetrics {
	m := &models.InventoryMetrics{
		TotalStock: decimal.Zero,
		TotalValue: decimal.Zero,
		Products:   make([]models.ProductStockLevel, 0, len(rows)),
	}
	for _, row := range rows {
		value := decimal.Zero
		if row.Stock.IsPositive() {
			value = row.Stock.Mul(row.PricePerQuintal)
			m.ProductCount++
		}
		m.TotalStock = m.TotalStock.Add(row.Stock)
		m.TotalValue = m.TotalValue.Add(value)
		m.Products = append(m.Products, models.ProductStockLevel{
			ProductID:   row.ProductID.String(),
			ProductName: row.ProductName,
			SKU:         row.SKU,
			Unit:        row.Unit,
			Stock:       row.Stock,
			Value:       value,
		})
	}
	return m
}

// GetStockAlerts returns products with stock strictly below the
// low-stock threshold. Zero or negative stock escalates to out-of-stock.
func (s *AggregationService) GetStockAlerts(ctx context.Context, actor *models.User, tenantID string) ([]models.StockAlert, error) {
	scope, err := s.authorize(actor, authz.ActionViewReports, tenantID)
	if err != nil {
		return nil, err
	}

	var alerts []models.StockAlert
	err = s.cache.Fetch(ctx, tenantID, cache.KindStockAlerts, "live", &alerts, func(ctx context.Context) (interface{}, error) {
		defer s.observe(cache.KindStockAlerts)()

		rows, err := s.store.StockByProduct(ctx, scope)
		if err != nil {
			return nil, err
		}
		return buildStockAlerts(rows, s.lowStockThreshold), nil
	})
	return alerts, widgetErr("stock alerts", err)
}

func buildStockAlerts(rows []repository.ProductStockRow, threshold decimal.Decimal) []models.StockAlert {
	alerts := make([]models.StockAlert, 0)
	for _, row := range rows {
		// Stock exactly at the threshold is healthy; low_stock covers
		// the open interval (0, threshold) only.
		if row.Stock.GreaterThanOrEqual(threshold) {
			continue
		}
		severity := models.AlertLowStock
		if !row.Stock.IsPositive() {
			severity = models.AlertOutOfStock
		}
		alerts = append(alerts, models.StockAlert{
			ProductID:   row.ProductID.String(),
			ProductName: row.ProductName,
			SKU:         row.SKU,
			Level:       row.Stock,
			Severity:    severity,
		})
	}
	return alerts
}

// GetFinancialMetrics returns period-scoped money totals. Requires the
// financials capability, which the viewer role does not carry.
func (s *AggregationService) GetFinancialMetrics(ctx context.Context, actor *models.User, tenantID string, period periods.Period) (*models.FinancialMetrics, error) {
	scope, err := s.authorize(actor, authz.ActionViewFinancials, tenantID)
	if err != nil {
		return nil, err
	}

	var result models.FinancialMetrics
	err = s.cache.Fetch(ctx, tenantID, cache.KindFinancial, period.Current.Key(), &result, func(ctx context.Context) (interface{}, error) {
		defer s.observe(cache.KindFinancial)()

		totals, err := s.store.PeriodTotals(ctx, scope, period.Current)
		if err != nil {
			return nil, err
		}
		return &models.FinancialMetrics{
			Period:        period.Current,
			Purchases:     totals.Purchases,
			Sales:         totals.Sales,
			GrossMargin:   totals.Sales.Sub(totals.Purchases),
			StockInCount:  totals.InCount,
			StockOutCount: totals.OutCount,
		}, nil
	})
	return &result, widgetErr("financial metrics", err)
}

// GetTrendSeries returns the daily in/out quantity series for a period.
// Days without movements appear as explicit zero points so both series
// share identical date buckets.
func (s *AggregationService) GetTrendSeries(ctx context.Context, actor *models.User, tenantID string, period periods.Period) (*models.TrendSeries, error) {
	scope, err := s.authorize(actor, authz.ActionViewReports, tenantID)
	if err != nil {
		return nil, err
	}

	var result models.TrendSeries
	err = s.cache.Fetch(ctx, tenantID, cache.KindTrend, period.Current.Key(), &result, func(ctx context.Context) (interface{}, error) {
		defer s.observe(cache.KindTrend)()

		rows, err := s.store.DailyTotals(ctx, scope, period.Current)
		if err != nil {
			return nil, err
		}
		return buildTrendSeries(period.Current, rows), nil
	})
	return &result, widgetErr("trend series", err)
}

func buildTrendSeries(r periods.Range, rows []repository.DailyTotalRow) *models.TrendSeries {
	byDay := make(map[string]repository.DailyTotalRow, len(rows))
	for _, row := range rows {
		byDay[row.Date.Format("2006-01-02")] = row
	}

	series := &models.TrendSeries{Period: r, Points: make([]models.TrendPoint, 0)}
	for day := r.Start; day.Before(r.End); day = day.AddDate(0, 0, 1) {
		point := models.TrendPoint{Date: day, InQuintals: decimal.Zero, OutQuintals: decimal.Zero}
		if row, ok := byDay[day.Format("2006-01-02")]; ok {
			point.InQuintals = row.InQuintals
			point.OutQuintals = row.OutQuintals
		}
		series.Points = append(series.Points, point)
	}
	return series
}

// GetTopEntities returns the period's top products, farmers, or customers
// by moved quantity. Each row's percentage is of the displayed set's total
// quantity, so the shown rows sum to roughly 100%.
func (s *AggregationService) GetTopEntities(ctx context.Context, actor *models.User, tenantID string, period periods.Period, kind models.TopKind, limit int) ([]models.RankedEntity, error) {
	scope, err := s.authorize(actor, authz.ActionViewReports, tenantID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	key := fmt.Sprintf("%s:%d:%s", kind, limit, period.Current.Key())
	var result []models.RankedEntity
	err = s.cache.Fetch(ctx, tenantID, cache.KindTop, key, &result, func(ctx context.Context) (interface{}, error) {
		defer s.observe(cache.KindTop)()

		var rows []repository.EntityTotalRow
		var err error
		switch kind {
		case models.TopProducts:
			rows, err = s.store.TopProducts(ctx, scope, period.Current, limit)
		case models.TopFarmers:
			rows, err = s.store.TopParties(ctx, scope, period.Current, models.DirectionIn, limit)
		case models.TopCustomers:
			rows, err = s.store.TopParties(ctx, scope, period.Current, models.DirectionOut, limit)
		default:
			return nil, fmt.Errorf("unknown ranking kind %q", kind)
		}
		if err != nil {
			return nil, err
		}
		return rankEntities(rows), nil
	})
	if err == nil && !canSeeFinancials(actor, tenantID) {
		redactRankedFinancials(result)
	}
	return result, widgetErr("top entities", err)
}

func rankEntities(rows []repository.EntityTotalRow) []models.RankedEntity {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Quantity)
	}

	ranked := make([]models.RankedEntity, 0, len(rows))
	for _, row := range rows {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = row.Quantity.Div(total).Mul(hundred).Round(2)
		}
		ranked = append(ranked, models.RankedEntity{
			ID:         row.ID,
			Name:       row.Name,
			Quantity:   row.Quantity,
			Amount:     row.Amount,
			Percentage: pct,
		})
	}
	return ranked
}

// GetPerformanceComparison contrasts the current period with its previous
// equivalent. It exposes money totals, so it carries the financials
// capability requirement.
func (s *AggregationService) GetPerformanceComparison(ctx context.Context, actor *models.User, tenantID string, period periods.Period) (*models.PerformanceComparison, error) {
	scope, err := s.authorize(actor, authz.ActionViewFinancials, tenantID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%s", period.Current.Key(), period.Previous.Key())
	var result models.PerformanceComparison
	err = s.cache.Fetch(ctx, tenantID, cache.KindComparison, key, &result, func(ctx context.Context) (interface{}, error) {
		defer s.observe(cache.KindComparison)()

		current, err := s.store.PeriodTotals(ctx, scope, period.Current)
		if err != nil {
			return nil, err
		}
		previous, err := s.store.PeriodTotals(ctx, scope, period.Previous)
		if err != nil {
			return nil, err
		}
		return &models.PerformanceComparison{
			CurrentPeriod:  period.Current,
			PreviousPeriod: period.Previous,
			Current:        current,
			Previous:       previous,
			QuantityIn:     pctChange(current.InQuintals, previous.InQuintals),
			QuantityOut:    pctChange(current.OutQuintals, previous.OutQuintals),
			Purchases:      pctChange(current.Purchases, previous.Purchases),
			Sales:          pctChange(current.Sales, previous.Sales),
		}, nil
	})
	return &result, widgetErr("performance comparison", err)
}

// pctChange computes (current-previous)/previous as a percentage. A zero
// previous value raises the flag instead of dividing: no growth stays 0%,
// any growth from zero reports as +100%.
func pctChange(current, previous decimal.Decimal) models.ChangeRate {
	if previous.IsZero() {
		pct := decimal.Zero
		if !current.IsZero() {
			pct = hundred
		}
		return models.ChangeRate{Pct: pct, PreviousIsZero: true}
	}
	return models.ChangeRate{
		Pct: current.Sub(previous).Div(previous).Mul(hundred).Round(2),
	}
}

// GetRecentTransactions returns the latest movements across both
// directions, newest first.
func (s *AggregationService) GetRecentTransactions(ctx context.Context, actor *models.User, tenantID string, limit int) ([]models.StockMovement, error) {
	scope, err := s.authorize(actor, authz.ActionViewReports, tenantID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var result []models.StockMovement
	err = s.cache.Fetch(ctx, tenantID, cache.KindRecent, fmt.Sprintf("%d", limit), &result, func(ctx context.Context) (interface{}, error) {
		defer s.observe(cache.KindRecent)()
		return s.store.RecentMovements(ctx, scope, limit)
	})
	if err == nil && !canSeeFinancials(actor, tenantID) {
		redactMovementFinancials(result)
	}
	return result, widgetErr("recent transactions", err)
}

func (s *AggregationService) authorize(actor *models.User, action authz.Action, tenantID string) (repository.Scope, error) {
	if err := authz.Authorize(actor, action, tenantID); err != nil {
		return repository.Scope{}, err
	}
	return repository.NewScope(tenantID, actor)
}

func (s *AggregationService) observe(kind string) func() {
	start := time.Now()
	return func() {
		metrics.AggregationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
