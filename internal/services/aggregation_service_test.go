package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/cache"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
	"github.com/agrihub/inventory-service/internal/repository"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newService(store repository.MovementStore) *AggregationService {
	return NewAggregationService(store, cache.New(nil, testLogger(), time.Minute),
		decimal.NewFromInt(50), testLogger())
}

func testActor(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Role: role, TenantID: "tenant-a", Status: models.UserActive}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testPeriod(t *testing.T) periods.Period {
	t.Helper()
	p, err := periods.Resolve(periods.SelectorThisMonth, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestGetInventoryMetrics_ValuesStockAtCurrentPrice(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)
	riceID, wheatID := uuid.New(), uuid.New()

	// Rice: 100 in, 30 out -> 70 on hand; price is today's 2100, not
	// whatever historical movements carried.
	store.On("StockByProduct", mock.Anything, mock.Anything).Return([]repository.ProductStockRow{
		{ProductID: riceID, ProductName: "Rice", SKU: "RICE-01", PricePerQuintal: dec("2100"), Stock: dec("70")},
		{ProductID: wheatID, ProductName: "Wheat", SKU: "WHT-01", PricePerQuintal: dec("1800"), Stock: dec("-2")},
	}, nil)

	m, err := svc.GetInventoryMetrics(context.Background(), testActor(models.RoleViewer), "tenant-a")
	require.NoError(t, err)

	assert.True(t, m.TotalStock.Equal(dec("68")), "got %s", m.TotalStock)
	assert.Equal(t, int64(1), m.ProductCount, "only positive stock counts")
	assert.True(t, m.TotalValue.Equal(dec("147000")), "70 x 2100, oversold wheat contributes no value")
	require.Len(t, m.Products, 2)
	assert.True(t, m.Products[1].Value.IsZero())
}

func TestGetInventoryMetrics_CrossTenantDenied(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)

	_, err := svc.GetInventoryMetrics(context.Background(), testActor(models.RoleCompanyAdmin), "tenant-b")
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
	store.AssertNotCalled(t, "StockByProduct")
}

func TestGetStockAlerts_Severity(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)

	store.On("StockByProduct", mock.Anything, mock.Anything).Return([]repository.ProductStockRow{
		{ProductID: uuid.New(), ProductName: "Rice", Stock: dec("70")},
		{ProductID: uuid.New(), ProductName: "Wheat", Stock: dec("50")},
		{ProductID: uuid.New(), ProductName: "Jowar", Stock: dec("49.999")},
		{ProductID: uuid.New(), ProductName: "Maize", Stock: dec("0")},
	}, nil)

	alerts, err := svc.GetStockAlerts(context.Background(), testActor(models.RoleViewer), "tenant-a")
	require.NoError(t, err)

	require.Len(t, alerts, 2, "rice is above and wheat exactly at the threshold")
	assert.Equal(t, "Jowar", alerts[0].ProductName)
	assert.Equal(t, models.AlertLowStock, alerts[0].Severity)
	assert.Equal(t, models.AlertOutOfStock, alerts[1].Severity)
}

func TestBuildStockAlerts_ThresholdBoundary(t *testing.T) {
	threshold := dec("50")

	alerts := buildStockAlerts([]repository.ProductStockRow{
		{ProductID: uuid.New(), ProductName: "At threshold", Stock: dec("50")},
	}, threshold)
	assert.Empty(t, alerts, "stock equal to the threshold is not low")

	alerts = buildStockAlerts([]repository.ProductStockRow{
		{ProductID: uuid.New(), ProductName: "Just below", Stock: dec("49.999")},
	}, threshold)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertLowStock, alerts[0].Severity)

	alerts = buildStockAlerts([]repository.ProductStockRow{
		{ProductID: uuid.New(), ProductName: "Oversold", Stock: dec("-1")},
	}, threshold)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertOutOfStock, alerts[0].Severity)
}

func TestGetFinancialMetrics_ViewerDenied(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)

	_, err := svc.GetFinancialMetrics(context.Background(), testActor(models.RoleViewer), "tenant-a", testPeriod(t))
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
	store.AssertNotCalled(t, "PeriodTotals")
}

func TestGetFinancialMetrics_GrossMargin(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)
	period := testPeriod(t)

	store.On("PeriodTotals", mock.Anything, mock.Anything, period.Current).Return(models.PeriodTotals{
		Purchases: dec("120000.50"),
		Sales:     dec("150000.25"),
		InCount:   12,
		OutCount:  9,
	}, nil)

	m, err := svc.GetFinancialMetrics(context.Background(), testActor(models.RoleOperator), "tenant-a", period)
	require.NoError(t, err)

	assert.True(t, m.GrossMargin.Equal(dec("29999.75")), "got %s", m.GrossMargin)
	assert.Equal(t, int64(12), m.StockInCount)
}

func TestGetTrendSeries_FillsMissingDays(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)
	period, err := periods.ResolveCustom(
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	store.On("DailyTotals", mock.Anything, mock.Anything, period.Current).Return([]repository.DailyTotalRow{
		{Date: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), InQuintals: dec("5"), OutQuintals: dec("1")},
		{Date: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), InQuintals: dec("0"), OutQuintals: dec("3")},
	}, nil)

	series, err := svc.GetTrendSeries(context.Background(), testActor(models.RoleViewer), "tenant-a", period)
	require.NoError(t, err)

	require.Len(t, series.Points, 5, "every day of the range appears")
	assert.True(t, series.Points[0].InQuintals.IsZero(), "March 1 had no movements")
	assert.True(t, series.Points[1].InQuintals.Equal(dec("5")))
	assert.True(t, series.Points[2].OutQuintals.IsZero())
	assert.True(t, series.Points[3].OutQuintals.Equal(dec("3")))
}

func TestGetTopEntities_PercentageOfDisplayedSet(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)
	period := testPeriod(t)

	store.On("TopProducts", mock.Anything, mock.Anything, period.Current, 2).Return([]repository.EntityTotalRow{
		{ID: "p1", Name: "Rice", Quantity: dec("60"), Amount: dec("126000")},
		{ID: "p2", Name: "Wheat", Quantity: dec("40"), Amount: dec("72000")},
	}, nil)

	ranked, err := svc.GetTopEntities(context.Background(), testActor(models.RoleViewer), "tenant-a",
		period, models.TopProducts, 2)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.True(t, ranked[0].Percentage.Equal(dec("60")), "got %s", ranked[0].Percentage)
	assert.True(t, ranked[1].Percentage.Equal(dec("40")), "got %s", ranked[1].Percentage)
}

func TestGetTopEntities_ZeroTotalYieldsZeroPercentages(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)
	period := testPeriod(t)

	store.On("TopParties", mock.Anything, mock.Anything, period.Current, models.DirectionIn, 5).
		Return([]repository.EntityTotalRow{
			{ID: "f1", Name: "Ramesh", Quantity: decimal.Zero, Amount: decimal.Zero},
		}, nil)

	ranked, err := svc.GetTopEntities(context.Background(), testActor(models.RoleViewer), "tenant-a",
		period, models.TopFarmers, 5)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.True(t, ranked[0].Percentage.IsZero())
}

func TestGetTopEntities_ViewerAmountsRedacted(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)
	period := testPeriod(t)

	store.On("TopProducts", mock.Anything, mock.Anything, period.Current, 2).Return([]repository.EntityTotalRow{
		{ID: "p1", Name: "Rice", Quantity: dec("60"), Amount: dec("126000")},
		{ID: "p2", Name: "Wheat", Quantity: dec("40"), Amount: dec("72000")},
	}, nil)

	ranked, err := svc.GetTopEntities(context.Background(), testActor(models.RoleViewer), "tenant-a",
		period, models.TopProducts, 2)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.True(t, ranked[0].Amount.IsZero(), "money hidden from viewers")
	assert.True(t, ranked[0].Quantity.Equal(dec("60")), "quantities stay visible")
	assert.True(t, ranked[0].Percentage.Equal(dec("60")))

	// The same cached entry still serves money to roles that may see it.
	rankedOp, err := svc.GetTopEntities(context.Background(), testActor(models.RoleOperator), "tenant-a",
		period, models.TopProducts, 2)
	require.NoError(t, err)
	assert.True(t, rankedOp[0].Amount.Equal(dec("126000")))
	store.AssertNumberOfCalls(t, "TopProducts", 1)
}

func TestGetRecentTransactions_ViewerPricesRedacted(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)

	store.On("RecentMovements", mock.Anything, mock.Anything, 10).Return([]models.StockMovement{
		{ID: uuid.New(), Direction: models.DirectionOut, TotalQuintals: dec("5"),
			PricePerQuintal: dec("2000"), TotalPrice: dec("10000")},
	}, nil)

	recent, err := svc.GetRecentTransactions(context.Background(), testActor(models.RoleViewer), "tenant-a", 0)
	require.NoError(t, err)

	require.Len(t, recent, 1)
	assert.True(t, recent[0].TotalPrice.IsZero())
	assert.True(t, recent[0].PricePerQuintal.IsZero())
	assert.True(t, recent[0].TotalQuintals.Equal(dec("5")))
}

func TestGetTopEntities_UnknownKind(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)

	_, err := svc.GetTopEntities(context.Background(), testActor(models.RoleViewer), "tenant-a",
		testPeriod(t), models.TopKind("vendors"), 5)
	assert.Error(t, err)
}

func TestGetPerformanceComparison(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)
	period := testPeriod(t)

	store.On("PeriodTotals", mock.Anything, mock.Anything, period.Current).Return(models.PeriodTotals{
		InQuintals: dec("150"), OutQuintals: dec("20"), Purchases: dec("300000"), Sales: dec("0"),
	}, nil)
	store.On("PeriodTotals", mock.Anything, mock.Anything, period.Previous).Return(models.PeriodTotals{
		InQuintals: dec("100"), OutQuintals: dec("0"), Purchases: dec("200000"), Sales: dec("0"),
	}, nil)

	cmp, err := svc.GetPerformanceComparison(context.Background(), testActor(models.RoleCompanyAdmin), "tenant-a", period)
	require.NoError(t, err)

	assert.True(t, cmp.QuantityIn.Pct.Equal(dec("50")), "got %s", cmp.QuantityIn.Pct)
	assert.False(t, cmp.QuantityIn.PreviousIsZero)

	assert.True(t, cmp.QuantityOut.Pct.Equal(dec("100")), "growth from zero reports +100%%")
	assert.True(t, cmp.QuantityOut.PreviousIsZero)

	assert.True(t, cmp.Sales.Pct.IsZero(), "zero to zero is 0%%")
	assert.True(t, cmp.Sales.PreviousIsZero)
}

func TestPctChange(t *testing.T) {
	rate := pctChange(dec("130"), dec("100"))
	assert.True(t, rate.Pct.Equal(dec("30")))
	assert.False(t, rate.PreviousIsZero)

	rate = pctChange(dec("70"), dec("100"))
	assert.True(t, rate.Pct.Equal(dec("-30")))

	rate = pctChange(dec("0"), dec("100"))
	assert.True(t, rate.Pct.Equal(dec("-100")))
}

func TestGetRecentTransactions(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)

	store.On("RecentMovements", mock.Anything, mock.Anything, 10).Return([]models.StockMovement{
		{ID: uuid.New(), Direction: models.DirectionOut},
		{ID: uuid.New(), Direction: models.DirectionIn},
	}, nil)

	recent, err := svc.GetRecentTransactions(context.Background(), testActor(models.RoleViewer), "tenant-a", 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestWidgetsFailIndependently(t *testing.T) {
	store := new(mockMovementStore)
	svc := newService(store)

	store.On("StockByProduct", mock.Anything, mock.Anything).
		Return([]repository.ProductStockRow(nil), repository.ErrDegraded)

	_, err := svc.GetInventoryMetrics(context.Background(), testActor(models.RoleViewer), "tenant-a")
	require.Error(t, err)

	var werr *ComputationError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "inventory metrics", werr.Widget)
	assert.ErrorIs(t, err, repository.ErrDegraded)
}
