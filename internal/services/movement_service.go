package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/audit"
	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/cache"
	"github.com/agrihub/inventory-service/internal/events"
	"github.com/agrihub/inventory-service/internal/metrics"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/repository"
)

// MovementInput carries the caller-supplied fields of a stock
// transaction. Totals are never accepted from the caller; they are
// derived at creation.
type MovementInput struct {
	ProductID         uuid.UUID       `json:"productId" binding:"required"`
	Date              time.Time       `json:"date" binding:"required"`
	PartyName         string          `json:"partyName" binding:"required"`
	PartyContact      string          `json:"partyContact"`
	VehicleNo         string          `json:"vehicleNo"`
	NumOfBags         int64           `json:"numOfBags" binding:"required"`
	NetWeightPerBagKg decimal.Decimal `json:"netWeightPerBagKg" binding:"required"`
	PricePerQuintal   decimal.Decimal `json:"pricePerQuintal" binding:"required"`
}

// MovementService records immutable stock transactions. A successful
// write triggers cache invalidation, an event publish, and an audit
// entry; those follow-ups are fire-and-forget so a dead broker never
// fails the write.
type MovementService struct {
	store     repository.MovementStore
	cache     *cache.MetricsCache
	publisher *events.Publisher
	recorder  *audit.Recorder
	logger    *logrus.Logger
}

// NewMovementService creates a new movement service
func NewMovementService(store repository.MovementStore, metricsCache *cache.MetricsCache,
	publisher *events.Publisher, recorder *audit.Recorder, logger *logrus.Logger) *MovementService {
	return &MovementService{
		store:     store,
		cache:     metricsCache,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
	}
}

// RecordStockIn records a purchase from a farmer
func (s *MovementService) RecordStockIn(ctx context.Context, actor *models.User, tenantID string, input MovementInput) (*models.StockMovement, error) {
	return s.record(ctx, actor, tenantID, models.DirectionIn, input)
}

// RecordStockOut records a sale to a customer
func (s *MovementService) RecordStockOut(ctx context.Context, actor *models.User, tenantID string, input MovementInput) (*models.StockMovement, error) {
	return s.record(ctx, actor, tenantID, models.DirectionOut, input)
}

func (s *MovementService) record(ctx context.Context, actor *models.User, tenantID string, direction models.MovementDirection, input MovementInput) (*models.StockMovement, error) {
	if err := authz.Authorize(actor, authz.ActionManageInventory, tenantID); err != nil {
		return nil, err
	}
	scope, err := repository.NewScope(tenantID, actor)
	if err != nil {
		return nil, err
	}

	movement, err := models.NewStockMovement(tenantID, input.ProductID, direction, input.Date,
		input.PartyName, input.PartyContact, input.VehicleNo,
		input.NumOfBags, input.NetWeightPerBagKg, input.PricePerQuintal)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateMovement(ctx, scope, movement); err != nil {
		return nil, err
	}
	metrics.MovementsRecorded.WithLabelValues(string(direction)).Inc()

	go s.afterWrite(actor, tenantID, movement)

	return movement, nil
}

// afterWrite runs the post-commit follow-ups on a detached context so the
// caller's response is never held up or failed by them.
func (s *MovementService) afterWrite(actor *models.User, tenantID string, movement *models.StockMovement) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.cache.InvalidateTenant(ctx, tenantID)

	if err := s.publisher.PublishMovementRecorded(ctx, tenantID, events.MovementRecorded{
		MovementID:    movement.ID.String(),
		ProductID:     movement.ProductID.String(),
		Direction:     string(movement.Direction),
		TotalQuintals: movement.TotalQuintals,
		RecordedAt:    movement.CreatedAt,
	}); err != nil {
		s.logger.WithError(err).Warn("Movement event publish failed")
	}

	s.recorder.Record(ctx, actor, tenantID, models.AuditActionCreate, models.AuditResourceMovement,
		movement.ID.String(), map[string]interface{}{
			"direction":     movement.Direction,
			"productId":     movement.ProductID.String(),
			"numOfBags":     movement.NumOfBags,
			"totalQuintals": movement.TotalQuintals,
			"totalPrice":    movement.TotalPrice,
		})
}

// ListMovements returns a filtered, paginated movement listing
func (s *MovementService) ListMovements(ctx context.Context, actor *models.User, tenantID string, filter repository.MovementFilter) ([]models.StockMovement, int64, error) {
	if err := authz.Authorize(actor, authz.ActionViewReports, tenantID); err != nil {
		return nil, 0, err
	}
	scope, err := repository.NewScope(tenantID, actor)
	if err != nil {
		return nil, 0, err
	}
	movements, total, err := s.store.ListMovements(ctx, scope, filter)
	if err != nil {
		return nil, 0, err
	}
	if !canSeeFinancials(actor, tenantID) {
		redactMovementFinancials(movements)
	}
	return movements, total, nil
}
