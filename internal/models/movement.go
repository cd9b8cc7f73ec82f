package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementDirection distinguishes purchases from sales
type MovementDirection string

const (
	DirectionIn  MovementDirection = "IN"  // purchase from a farmer
	DirectionOut MovementDirection = "OUT" // sale to a customer
)

var (
	ErrInvalidBags   = errors.New("num_of_bags must be positive")
	ErrInvalidWeight = errors.New("net_weight_per_bag_kg must be positive")
	ErrInvalidPrice  = errors.New("price_per_quintal must be positive")
)

var quintalKg = decimal.NewFromInt(100)

// StockMovement is an immutable stock transaction (StockIn or StockOut by
// direction). Corrections are new compensating movements, never edits.
// TotalQuintals and TotalPrice are derived once at creation from the price
// copied at transaction time and persisted in the same insert.
type StockMovement struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string            `json:"tenantId" gorm:"type:varchar(255);not null;index:idx_movements_tenant_date;index:idx_movements_tenant_product;index:idx_movements_tenant_party"`
	ProductID uuid.UUID         `json:"productId" gorm:"type:uuid;not null;index:idx_movements_tenant_product"`
	Direction MovementDirection `json:"direction" gorm:"type:varchar(3);not null;index"`
	Date      time.Time         `json:"date" gorm:"type:date;not null;index:idx_movements_tenant_date"`

	// Counterparty: farmer on StockIn, customer on StockOut.
	PartyName    string `json:"partyName" gorm:"type:varchar(255);not null;index:idx_movements_tenant_party"`
	PartyContact string `json:"partyContact" gorm:"type:varchar(100)"`
	VehicleNo    string `json:"vehicleNo" gorm:"type:varchar(50)"`

	NumOfBags         int64           `json:"numOfBags" gorm:"not null"`
	NetWeightPerBagKg decimal.Decimal `json:"netWeightPerBagKg" gorm:"type:numeric(10,3);not null"`
	PricePerQuintal   decimal.Decimal `json:"pricePerQuintal" gorm:"type:numeric(12,2);not null"`
	TotalQuintals     decimal.Decimal `json:"totalQuintals" gorm:"type:numeric(14,3);not null"`
	TotalPrice        decimal.Decimal `json:"totalPrice" gorm:"type:numeric(16,2);not null"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// TableName specifies the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement validates the inputs and computes the derived totals:
// total_quintals = bags * kg_per_bag / 100, total_price = total_quintals *
// price_per_quintal. The price is a copy, not a live product reference.
func NewStockMovement(tenantID string, productID uuid.UUID, direction MovementDirection, date time.Time,
	partyName, partyContact, vehicleNo string,
	numOfBags int64, netWeightPerBagKg, pricePerQuintal decimal.Decimal) (*StockMovement, error) {

	if numOfBags <= 0 {
		return nil, ErrInvalidBags
	}
	if !netWeightPerBagKg.IsPositive() {
		return nil, ErrInvalidWeight
	}
	if !pricePerQuintal.IsPositive() {
		return nil, ErrInvalidPrice
	}

	totalQuintals := decimal.NewFromInt(numOfBags).Mul(netWeightPerBagKg).Div(quintalKg)
	totalPrice := totalQuintals.Mul(pricePerQuintal)

	return &StockMovement{
		TenantID:          tenantID,
		ProductID:         productID,
		Direction:         direction,
		Date:              date,
		PartyName:         partyName,
		PartyContact:      partyContact,
		VehicleNo:         vehicleNo,
		NumOfBags:         numOfBags,
		NetWeightPerBagKg: netWeightPerBagKg,
		PricePerQuintal:   pricePerQuintal,
		TotalQuintals:     totalQuintals,
		TotalPrice:        totalPrice,
	}, nil
}

// IsStockIn checks the movement direction
func (m *StockMovement) IsStockIn() bool {
	return m.Direction == DirectionIn
}
