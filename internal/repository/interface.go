package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
)

// ProductStockRow is one product's live stock position as read from the
// store. Valuation at the current price happens in the aggregation layer.
type ProductStockRow struct {
	ProductID       uuid.UUID
	ProductName     string
	SKU             string
	Unit            string
	PricePerQuintal decimal.Decimal
	Stock           decimal.Decimal
}

// DailyTotalRow is one day's movement totals; days without movements are
// absent and get filled in by the aggregation layer.
type DailyTotalRow struct {
	Date        time.Time
	InQuintals  decimal.Decimal
	OutQuintals decimal.Decimal
}

// EntityTotalRow is one ranked entity's totals inside a period
type EntityTotalRow struct {
	ID       string
	Name     string
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// MovementFilter narrows a movement listing
type MovementFilter struct {
	Range     *periods.Range
	Direction models.MovementDirection
	ProductID *uuid.UUID
	Limit     int
	Offset    int
}

// MovementStore is the tenant-scoped access layer over products and stock
// movements. Every method takes a validated Scope; no caller may issue a
// raw query around it.
type MovementStore interface {
	CreateMovement(ctx context.Context, scope Scope, m *models.StockMovement) error
	ListMovements(ctx context.Context, scope Scope, filter MovementFilter) ([]models.StockMovement, int64, error)
	RecentMovements(ctx context.Context, scope Scope, limit int) ([]models.StockMovement, error)

	StockByProduct(ctx context.Context, scope Scope) ([]ProductStockRow, error)
	PeriodTotals(ctx context.Context, scope Scope, r periods.Range) (models.PeriodTotals, error)
	DailyTotals(ctx context.Context, scope Scope, r periods.Range) ([]DailyTotalRow, error)
	TopProducts(ctx context.Context, scope Scope, r periods.Range, limit int) ([]EntityTotalRow, error)
	TopParties(ctx context.Context, scope Scope, r periods.Range, direction models.MovementDirection, limit int) ([]EntityTotalRow, error)
}

// TenantStore resolves tenants for boundary checks and background jobs
type TenantStore interface {
	GetTenant(ctx context.Context, id string) (*models.Tenant, error)
	ListActiveTenants(ctx context.Context) ([]models.Tenant, error)
}

// PreferenceStore persists per-user dashboard preferences
type PreferenceStore interface {
	GetPreference(ctx context.Context, userID uuid.UUID) (*models.DashboardPreference, error)
	SavePreference(ctx context.Context, pref *models.DashboardPreference) error
}

// AuditStore appends and lists immutable audit entries
type AuditStore interface {
	AppendAuditEntry(ctx context.Context, entry *models.AuditLogEntry) error
	ListAuditEntries(ctx context.Context, scope Scope, limit, offset int) ([]models.AuditLogEntry, int64, error)
}
