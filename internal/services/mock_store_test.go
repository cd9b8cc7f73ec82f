package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
	"github.com/agrihub/inventory-service/internal/repository"
)

type mockMovementStore struct {
	mock.Mock
}

func (m *mockMovementStore) CreateMovement(ctx context.Context, scope repository.Scope, mv *models.StockMovement) error {
	args := m.Called(ctx, scope, mv)
	return args.Error(0)
}

func (m *mockMovementStore) ListMovements(ctx context.Context, scope repository.Scope, filter repository.MovementFilter) ([]models.StockMovement, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]models.StockMovement), args.Get(1).(int64), args.Error(2)
}

func (m *mockMovementStore) RecentMovements(ctx context.Context, scope repository.Scope, limit int) ([]models.StockMovement, error) {
	args := m.Called(ctx, scope, limit)
	return args.Get(0).([]models.StockMovement), args.Error(1)
}

func (m *mockMovementStore) StockByProduct(ctx context.Context, scope repository.Scope) ([]repository.ProductStockRow, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]repository.ProductStockRow), args.Error(1)
}

func (m *mockMovementStore) PeriodTotals(ctx context.Context, scope repository.Scope, r periods.Range) (models.PeriodTotals, error) {
	args := m.Called(ctx, scope, r)
	return args.Get(0).(models.PeriodTotals), args.Error(1)
}

func (m *mockMovementStore) DailyTotals(ctx context.Context, scope repository.Scope, r periods.Range) ([]repository.DailyTotalRow, error) {
	args := m.Called(ctx, scope, r)
	return args.Get(0).([]repository.DailyTotalRow), args.Error(1)
}

func (m *mockMovementStore) TopProducts(ctx context.Context, scope repository.Scope, r periods.Range, limit int) ([]repository.EntityTotalRow, error) {
	args := m.Called(ctx, scope, r, limit)
	return args.Get(0).([]repository.EntityTotalRow), args.Error(1)
}

func (m *mockMovementStore) TopParties(ctx context.Context, scope repository.Scope, r periods.Range, direction models.MovementDirection, limit int) ([]repository.EntityTotalRow, error) {
	args := m.Called(ctx, scope, r, direction, limit)
	return args.Get(0).([]repository.EntityTotalRow), args.Error(1)
}
