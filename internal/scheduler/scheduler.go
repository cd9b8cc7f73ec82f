package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/events"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/repository"
)

// Scheduler runs the periodic low-stock sweep across all active tenants.
// The sweep uses the internal system actor, which must scope to each
// tenant explicitly like any other caller.
type Scheduler struct {
	cron      *cron.Cron
	tenants   repository.TenantStore
	movements repository.MovementStore
	publisher *events.Publisher
	threshold decimal.Decimal
	logger    *logrus.Logger
}

// New creates a new scheduler
func New(tenants repository.TenantStore, movements repository.MovementStore,
	publisher *events.Publisher, threshold decimal.Decimal, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		tenants:   tenants,
		movements: movements,
		publisher: publisher,
		threshold: threshold,
		logger:    logger,
	}
}

// Start registers the sweep and launches the cron loop
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = "*/15 * * * *"
	}
	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.WithField("schedule", spec).Info("Low-stock sweep scheduled")
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tenants, err := s.tenants.ListActiveTenants(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Low-stock sweep: listing tenants failed")
		return
	}

	actor := models.SystemActor()
	for _, tenant := range tenants {
		if err := s.sweepTenant(ctx, actor, tenant.ID.String()); err != nil {
			s.logger.WithField("tenant_id", tenant.ID).WithError(err).Warn("Low-stock sweep failed for tenant")
		}
	}
}

func (s *Scheduler) sweepTenant(ctx context.Context, actor *models.User, tenantID string) error {
	scope, err := repository.NewScope(tenantID, actor)
	if err != nil {
		return err
	}

	rows, err := s.movements.StockByProduct(ctx, scope)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if row.Stock.GreaterThanOrEqual(s.threshold) {
			continue
		}
		severity := models.AlertLowStock
		if !row.Stock.IsPositive() {
			severity = models.AlertOutOfStock
		}
		if err := s.publisher.PublishStockAlert(ctx, tenantID, events.StockAlert{
			ProductID:   row.ProductID.String(),
			ProductName: row.ProductName,
			SKU:         row.SKU,
			Level:       row.Stock,
			Severity:    string(severity),
		}); err != nil {
			s.logger.WithError(err).Warn("Stock alert publish failed")
		}
	}
	return nil
}
