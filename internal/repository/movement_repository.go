package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gorm.io/gorm"

	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
)

const readRetryDelay = 150 * time.Millisecond

// MovementRepository is the gorm implementation of MovementStore. Aggregate
// reads run behind a circuit breaker with a single retry; writes never pass
// through the breaker.
type MovementRepository struct {
	db      *gorm.DB
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *gorm.DB, logger *logrus.Logger) *MovementRepository {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "movement-reads",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &MovementRepository{db: db, breaker: breaker, logger: logger}
}

// read executes an aggregate query with one retry behind the breaker.
// Authorization and scope failures never reach here, so every error is a
// store failure and maps to ErrDegraded once the retry is spent.
func (r *MovementRepository) read(ctx context.Context, fn func() error) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		if err := fn(); err != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(readRetryDelay):
			}
			return nil, fn()
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.logger.WithError(err).Warn("Aggregate read failed after retry")
	return fmt.Errorf("%w: %v", ErrDegraded, err)
}

// CreateMovement inserts a movement with its derived totals in one
// transaction after verifying the product belongs to the scoped tenant.
// There is no intermediate state with null totals.
func (r *MovementRepository) CreateMovement(ctx context.Context, scope Scope, m *models.StockMovement) error {
	if m.TenantID != scope.TenantID {
		return ErrTenantMismatch
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).
			Where("id = ? AND tenant_id = ?", m.ProductID, scope.TenantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Create(m).Error
	})
}

// ListMovements returns a filtered, paginated movement listing
func (r *MovementRepository) ListMovements(ctx context.Context, scope Scope, filter MovementFilter) ([]models.StockMovement, int64, error) {
	var movements []models.StockMovement
	var total int64

	err := r.read(ctx, func() error {
		q := r.db.WithContext(ctx).Model(&models.StockMovement{}).
			Where("tenant_id = ?", scope.TenantID)
		if filter.Range != nil {
			q = q.Where("date >= ? AND date < ?", filter.Range.Start, filter.Range.End)
		}
		if filter.Direction != "" {
			q = q.Where("direction = ?", filter.Direction)
		}
		if filter.ProductID != nil {
			q = q.Where("product_id = ?", filter.ProductID)
		}
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		limit := filter.Limit
		if limit <= 0 {
			limit = 50
		}
		return q.Order("date DESC, id DESC").Limit(limit).Offset(filter.Offset).Find(&movements).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// RecentMovements returns the most recently recorded movements regardless
// of the selected reporting period, most recent first.
func (r *MovementRepository) RecentMovements(ctx context.Context, scope Scope, limit int) ([]models.StockMovement, error) {
	if limit <= 0 {
		limit = 10
	}
	var movements []models.StockMovement
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("tenant_id = ?", scope.TenantID).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&movements).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// StockByProduct computes each product's live stock: sum of StockIn
// quintals minus sum of StockOut quintals.
func (r *MovementRepository) StockByProduct(ctx context.Context, scope Scope) ([]ProductStockRow, error) {
	var rows []ProductStockRow
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).
			Table("products p").
			Select("p.id as product_id, p.name as product_name, p.sku, p.unit, p.price_per_quintal, "+
				"COALESCE(SUM(CASE WHEN m.direction = 'IN' THEN m.total_quintals ELSE -m.total_quintals END), 0) as stock").
			Joins("LEFT JOIN stock_movements m ON m.product_id = p.id AND m.tenant_id = p.tenant_id").
			Where("p.tenant_id = ?", scope.TenantID).
			Group("p.id, p.name, p.sku, p.unit, p.price_per_quintal").
			Order("p.name ASC, p.id ASC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PeriodTotals sums quantities, money, and counts inside [start, end)
func (r *MovementRepository) PeriodTotals(ctx context.Context, scope Scope, pr periods.Range) (models.PeriodTotals, error) {
	var totals models.PeriodTotals
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).
			Table("stock_movements").
			Select("COALESCE(SUM(CASE WHEN direction = 'IN' THEN total_quintals ELSE 0 END), 0) as in_quintals, "+
				"COALESCE(SUM(CASE WHEN direction = 'OUT' THEN total_quintals ELSE 0 END), 0) as out_quintals, "+
				"COALESCE(SUM(CASE WHEN direction = 'IN' THEN total_price ELSE 0 END), 0) as purchases, "+
				"COALESCE(SUM(CASE WHEN direction = 'OUT' THEN total_price ELSE 0 END), 0) as sales, "+
				"COALESCE(SUM(CASE WHEN direction = 'IN' THEN 1 ELSE 0 END), 0) as in_count, "+
				"COALESCE(SUM(CASE WHEN direction = 'OUT' THEN 1 ELSE 0 END), 0) as out_count").
			Where("tenant_id = ? AND date >= ? AND date < ?", scope.TenantID, pr.Start, pr.End).
			Scan(&totals).Error
	})
	if err != nil {
		return models.PeriodTotals{}, err
	}
	return totals, nil
}

// DailyTotals groups movement quantities by day inside [start, end)
func (r *MovementRepository) DailyTotals(ctx context.Context, scope Scope, pr periods.Range) ([]DailyTotalRow, error) {
	var rows []DailyTotalRow
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).
			Table("stock_movements").
			Select("date, "+
				"COALESCE(SUM(CASE WHEN direction = 'IN' THEN total_quintals ELSE 0 END), 0) as in_quintals, "+
				"COALESCE(SUM(CASE WHEN direction = 'OUT' THEN total_quintals ELSE 0 END), 0) as out_quintals").
			Where("tenant_id = ? AND date >= ? AND date < ?", scope.TenantID, pr.Start, pr.End).
			Group("date").
			Order("date ASC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks products by moved quantity inside the period. The sort
// is fully deterministic: quantity desc, amount desc, id asc.
func (r *MovementRepository) TopProducts(ctx context.Context, scope Scope, pr periods.Range, limit int) ([]EntityTotalRow, error) {
	var rows []EntityTotalRow
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).
			Table("stock_movements m").
			Select("m.product_id::text as id, p.name, "+
				"COALESCE(SUM(m.total_quintals), 0) as quantity, "+
				"COALESCE(SUM(m.total_price), 0) as amount").
			Joins("JOIN products p ON p.id = m.product_id AND p.tenant_id = m.tenant_id").
			Where("m.tenant_id = ? AND m.date >= ? AND m.date < ?", scope.TenantID, pr.Start, pr.End).
			Group("m.product_id, p.name").
			Order("quantity DESC, amount DESC, id ASC").
			Limit(limit).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopParties ranks counterparties (farmers for IN, customers for OUT) by
// quantity inside the period with the same deterministic tiebreaks.
func (r *MovementRepository) TopParties(ctx context.Context, scope Scope, pr periods.Range, direction models.MovementDirection, limit int) ([]EntityTotalRow, error) {
	var rows []EntityTotalRow
	err := r.read(ctx, func() error {
		return r.db.WithContext(ctx).
			Table("stock_movements").
			Select("party_name as id, party_name as name, "+
				"COALESCE(SUM(total_quintals), 0) as quantity, "+
				"COALESCE(SUM(total_price), 0) as amount").
			Where("tenant_id = ? AND direction = ? AND date >= ? AND date < ?", scope.TenantID, direction, pr.Start, pr.End).
			Group("party_name").
			Order("quantity DESC, amount DESC, id ASC").
			Limit(limit).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
