package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrihub/inventory-service/internal/audit"
	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/cache"
	"github.com/agrihub/inventory-service/internal/events"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/repository"
)

func newMovementService(store repository.MovementStore) *MovementService {
	logger := testLogger()
	return NewMovementService(store,
		cache.New(nil, logger, time.Minute),
		events.NewPublisher(nil, logger),
		audit.NewRecorder(nil, logger),
		logger)
}

func validInput() MovementInput {
	return MovementInput{
		ProductID:         uuid.New(),
		Date:              time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		PartyName:         "Ramesh",
		PartyContact:      "9000000000",
		VehicleNo:         "KA-01-1234",
		NumOfBags:         10,
		NetWeightPerBagKg: decimal.NewFromInt(50),
		PricePerQuintal:   decimal.NewFromInt(2000),
	}
}

func TestRecordStockIn_DerivesTotalsAndPersists(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)
	input := validInput()

	store.On("CreateMovement", mock.Anything, mock.Anything, mock.MatchedBy(func(m *models.StockMovement) bool {
		return m.Direction == models.DirectionIn &&
			m.TotalQuintals.Equal(decimal.NewFromInt(5)) &&
			m.TotalPrice.Equal(decimal.NewFromInt(10000))
	})).Return(nil)

	m, err := svc.RecordStockIn(context.Background(), testActor(models.RoleOperator), "tenant-a", input)
	require.NoError(t, err)

	assert.Equal(t, input.ProductID, m.ProductID)
	assert.True(t, m.IsStockIn())
	store.AssertExpectations(t)
}

func TestRecordStockOut_Direction(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)

	store.On("CreateMovement", mock.Anything, mock.Anything, mock.MatchedBy(func(m *models.StockMovement) bool {
		return m.Direction == models.DirectionOut
	})).Return(nil)

	m, err := svc.RecordStockOut(context.Background(), testActor(models.RoleCompanyAdmin), "tenant-a", validInput())
	require.NoError(t, err)
	assert.False(t, m.IsStockIn())
}

func TestRecord_ViewerDenied(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)

	_, err := svc.RecordStockIn(context.Background(), testActor(models.RoleViewer), "tenant-a", validInput())
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
	store.AssertNotCalled(t, "CreateMovement")
}

func TestRecord_CrossTenantDenied(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)

	_, err := svc.RecordStockIn(context.Background(), testActor(models.RoleOperator), "tenant-b", validInput())
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
	store.AssertNotCalled(t, "CreateMovement")
}

func TestRecord_InvalidQuantities(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)
	actor := testActor(models.RoleOperator)

	bad := validInput()
	bad.NumOfBags = 0
	_, err := svc.RecordStockIn(context.Background(), actor, "tenant-a", bad)
	assert.ErrorIs(t, err, models.ErrInvalidBags)

	bad = validInput()
	bad.PricePerQuintal = decimal.NewFromInt(-5)
	_, err = svc.RecordStockIn(context.Background(), actor, "tenant-a", bad)
	assert.ErrorIs(t, err, models.ErrInvalidPrice)

	store.AssertNotCalled(t, "CreateMovement")
}

func TestRecord_UnknownProductPropagates(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)

	store.On("CreateMovement", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrNotFound)

	_, err := svc.RecordStockIn(context.Background(), testActor(models.RoleOperator), "tenant-a", validInput())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListMovements_RequiresViewReports(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)

	store.On("ListMovements", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.StockMovement{{ID: uuid.New()}}, int64(1), nil)

	// Viewers may list movements even though they cannot record them.
	list, total, err := svc.ListMovements(context.Background(), testActor(models.RoleViewer), "tenant-a",
		repository.MovementFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestListMovements_ViewerPricesRedacted(t *testing.T) {
	store := new(mockMovementStore)
	svc := newMovementService(store)

	priced := func() []models.StockMovement {
		return []models.StockMovement{
			{ID: uuid.New(), TotalQuintals: decimal.NewFromInt(5),
				PricePerQuintal: decimal.NewFromInt(2000), TotalPrice: decimal.NewFromInt(10000)},
		}
	}
	store.On("ListMovements", mock.Anything, mock.Anything, mock.Anything).Return(priced(), int64(1), nil).Once()
	store.On("ListMovements", mock.Anything, mock.Anything, mock.Anything).Return(priced(), int64(1), nil).Once()

	list, _, err := svc.ListMovements(context.Background(), testActor(models.RoleViewer), "tenant-a",
		repository.MovementFilter{Limit: 10})
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.True(t, list[0].TotalPrice.IsZero(), "money hidden from viewers")
	assert.True(t, list[0].PricePerQuintal.IsZero())
	assert.True(t, list[0].TotalQuintals.Equal(decimal.NewFromInt(5)), "quantities stay visible")

	operatorList, _, err := svc.ListMovements(context.Background(), testActor(models.RoleOperator), "tenant-a",
		repository.MovementFilter{Limit: 10})
	require.NoError(t, err)
	assert.True(t, operatorList[0].TotalPrice.Equal(decimal.NewFromInt(10000)))
}
