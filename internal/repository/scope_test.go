package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrihub/inventory-service/internal/models"
)

func activeUser(role models.Role, tenantID string) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Role:     role,
		TenantID: tenantID,
		Status:   models.UserActive,
	}
}

func TestNewScope_OwnTenant(t *testing.T) {
	actor := activeUser(models.RoleOperator, "tenant-a")

	scope, err := NewScope("tenant-a", actor)
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", scope.TenantID)
	assert.Same(t, actor, scope.Actor)
}

func TestNewScope_CrossTenantDenied(t *testing.T) {
	actor := activeUser(models.RoleCompanyAdmin, "tenant-a")

	_, err := NewScope("tenant-b", actor)
	assert.ErrorIs(t, err, ErrTenantMismatch)
}

func TestNewScope_SuperAdminNeedsExplicitTenant(t *testing.T) {
	super := activeUser(models.RoleSuperAdmin, "")

	scope, err := NewScope("tenant-b", super)
	require.NoError(t, err, "super admin may scope to any tenant")
	assert.Equal(t, "tenant-b", scope.TenantID)

	_, err = NewScope("", super)
	assert.ErrorIs(t, err, ErrTenantMismatch, "no implicit all-tenants scope")
}

func TestNewScope_RejectsBadActors(t *testing.T) {
	_, err := NewScope("tenant-a", nil)
	assert.ErrorIs(t, err, ErrTenantMismatch)

	inactive := activeUser(models.RoleOperator, "tenant-a")
	inactive.Status = models.UserInactive
	_, err = NewScope("tenant-a", inactive)
	assert.ErrorIs(t, err, ErrTenantMismatch)
}
