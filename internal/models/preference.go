package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DashboardPreference holds a user's widget layout. Mutated only by its
// owning user.
type DashboardPreference struct {
	UserID        uuid.UUID      `json:"userId" gorm:"type:uuid;primary_key"`
	WidgetOrder   datatypes.JSON `json:"widgetOrder" gorm:"type:jsonb"`
	HiddenWidgets datatypes.JSON `json:"hiddenWidgets" gorm:"type:jsonb"`
	DefaultPeriod string         `json:"defaultPeriod" gorm:"type:varchar(30);not null;default:'this_month'"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (DashboardPreference) TableName() string {
	return "dashboard_preferences"
}
