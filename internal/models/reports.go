package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrihub/inventory-service/internal/periods"
)

// AlertSeverity classifies a stock level alert
type AlertSeverity string

const (
	AlertLowStock   AlertSeverity = "low_stock"
	AlertOutOfStock AlertSeverity = "out_of_stock"
)

// TopKind selects the entity dimension of a ranking
type TopKind string

const (
	TopProducts  TopKind = "products"
	TopFarmers   TopKind = "farmers"
	TopCustomers TopKind = "customers"
)

// ProductStockLevel is the live stock position of one product:
// sum of StockIn quintals minus sum of StockOut quintals, valued at the
// product's current price (not the price stored on historical movements).
type ProductStockLevel struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	Value       decimal.Decimal `json:"value"`
}

// InventoryMetrics summarizes a tenant's current stock position
type InventoryMetrics struct {
	TotalStock   decimal.Decimal     `json:"totalStock"`
	ProductCount int64               `json:"productCount"` // products with positive stock
	TotalValue   decimal.Decimal     `json:"totalValue"`
	Products     []ProductStockLevel `json:"products"`
}

// StockAlert flags a product at or below the low-stock threshold
type StockAlert struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Level       decimal.Decimal `json:"level"`
	Severity    AlertSeverity   `json:"severity"`
}

// FinancialMetrics are period-scoped money totals. Hidden from the viewer
// role.
type FinancialMetrics struct {
	Period        periods.Range   `json:"period"`
	Purchases     decimal.Decimal `json:"purchases"` // sum of StockIn total_price
	Sales         decimal.Decimal `json:"sales"`     // sum of StockOut total_price
	GrossMargin   decimal.Decimal `json:"grossMargin"`
	StockInCount  int64           `json:"stockInCount"`
	StockOutCount int64           `json:"stockOutCount"`
}

// TrendPoint is one day in a trend series. Zero-value days are present so
// both series share identical gap-free date buckets.
type TrendPoint struct {
	Date        time.Time       `json:"date"`
	InQuintals  decimal.Decimal `json:"inQuintals"`
	OutQuintals decimal.Decimal `json:"outQuintals"`
}

// TrendSeries is the daily StockIn/StockOut quantity series for a period
type TrendSeries struct {
	Period periods.Range `json:"period"`
	Points []TrendPoint  `json:"points"`
}

// RankedEntity is one row of a top-N ranking. Percentage is of the total
// volume across the displayed set, so rows sum to roughly 100%.
type RankedEntity struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PeriodTotals are movement totals inside one resolved range
type PeriodTotals struct {
	InQuintals  decimal.Decimal `json:"inQuintals"`
	OutQuintals decimal.Decimal `json:"outQuintals"`
	Purchases   decimal.Decimal `json:"purchases"`
	Sales       decimal.Decimal `json:"sales"`
	InCount     int64           `json:"inCount"`
	OutCount    int64           `json:"outCount"`
}

// ChangeRate is a previous-vs-current percentage change. PreviousIsZero is
// set instead of dividing by zero: both zero means 0%, growth from zero is
// reported as +100% with the flag raised so callers can render "N/A".
type ChangeRate struct {
	Pct            decimal.Decimal `json:"pct"`
	PreviousIsZero bool            `json:"previousIsZero"`
}

// PerformanceComparison contrasts the current period with its previous
// equivalent period
type PerformanceComparison struct {
	CurrentPeriod  periods.Range `json:"currentPeriod"`
	PreviousPeriod periods.Range `json:"previousPeriod"`
	Current        PeriodTotals  `json:"current"`
	Previous       PeriodTotals  `json:"previous"`
	QuantityIn     ChangeRate    `json:"quantityInChange"`
	QuantityOut    ChangeRate    `json:"quantityOutChange"`
	Purchases      ChangeRate    `json:"purchasesChange"`
	Sales          ChangeRate    `json:"salesChange"`
}
