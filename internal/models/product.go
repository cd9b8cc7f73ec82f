package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a stocked commodity. Category is fixed at creation;
// price changes never rewrite historical movements, which copy the price
// at transaction time.
type Product struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"type:varchar(255);not null;index:idx_products_tenant;uniqueIndex:idx_products_tenant_sku"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	SKU      string    `json:"sku" gorm:"type:varchar(100);not null;uniqueIndex:idx_products_tenant_sku"`
	Category string    `json:"category" gorm:"type:varchar(100);not null"`
	Unit     string    `json:"unit" gorm:"type:varchar(30);not null;default:'quintal'"`

	// Current selling price, used for live inventory valuation only.
	PricePerQuintal decimal.Decimal `json:"pricePerQuintal" gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}
