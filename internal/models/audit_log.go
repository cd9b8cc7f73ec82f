package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditAction represents the type of action recorded
type AuditAction string

const (
	AuditActionCreate        AuditAction = "CREATE"
	AuditActionUpdate        AuditAction = "UPDATE"
	AuditActionStatusChange  AuditAction = "STATUS_CHANGE"
	AuditActionSettingChange AuditAction = "SETTING_CHANGE"
	AuditActionAccessDenied  AuditAction = "ACCESS_DENIED"
)

// AuditResource represents the type of resource acted upon
type AuditResource string

const (
	AuditResourceTenant     AuditResource = "TENANT"
	AuditResourceUser       AuditResource = "USER"
	AuditResourceProduct    AuditResource = "PRODUCT"
	AuditResourceMovement   AuditResource = "MOVEMENT"
	AuditResourcePreference AuditResource = "PREFERENCE"
)

// AuditLogEntry is an append-only record of a sensitive action. Entries are
// never mutated or deleted; user and tenant references are nullable because
// the referenced rows may be deactivated later.
type AuditLogEntry struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`

	UserID   *uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	TenantID *string    `json:"tenantId" gorm:"type:varchar(255);index"`

	Action       AuditAction   `json:"action" gorm:"type:varchar(30);not null;index"`
	ResourceType AuditResource `json:"resourceType" gorm:"type:varchar(30);not null;index"`
	ResourceID   string        `json:"resourceId" gorm:"type:varchar(255);index"`

	Changes datatypes.JSON `json:"changes" gorm:"type:jsonb"`

	Timestamp time.Time `json:"timestamp" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (AuditLogEntry) TableName() string {
	return "audit_logs"
}

// BeforeCreate hook to set timestamp
func (a *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	return nil
}
