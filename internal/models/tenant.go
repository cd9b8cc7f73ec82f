package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Tenant represents an isolated customer organization. All inventory data
// is partitioned by tenant; tenants are deactivated, never deleted.
type Tenant struct {
	ID       uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name     string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug     string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Active   bool           `json:"active" gorm:"not null;default:true"`
	Settings datatypes.JSON `json:"settings" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Tenant) TableName() string {
	return "tenants"
}
