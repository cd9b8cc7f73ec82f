package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's capability set
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleOperator     Role = "operator"
	RoleViewer       Role = "viewer"
)

// UserStatus represents the lifecycle state of a user account
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User represents an actor in the system. Users are never hard-deleted so
// audit history stays valid; status transitions only.
// Invariant: every role except super_admin carries a tenant id.
type User struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Role     Role       `json:"role" gorm:"type:varchar(30);not null;index"`
	TenantID string     `json:"tenantId" gorm:"type:varchar(255);index"`
	Status   UserStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsActive checks whether the user may act at all
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// IsSuperAdmin checks for the unrestricted role
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// SystemActor returns the internal actor used by background jobs. It has
// super admin capability and therefore must always name an explicit tenant
// when touching scoped data.
func SystemActor() *User {
	return &User{
		ID:     uuid.Nil,
		Email:  "system@internal",
		Role:   RoleSuperAdmin,
		Status: UserActive,
	}
}
