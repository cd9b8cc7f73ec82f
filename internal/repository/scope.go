package repository

import (
	"errors"

	"github.com/agrihub/inventory-service/internal/models"
)

var (
	// ErrTenantMismatch is returned when an operation names a tenant the
	// actor does not own. The boundary presents it exactly like an
	// authorization failure so callers cannot probe other tenants.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// ErrNotFound is returned when a referenced row does not exist inside
	// the actor's scope.
	ErrNotFound = errors.New("not found")

	// ErrDegraded is returned when the store keeps failing after a retry;
	// widgets fail independently instead of crashing the dashboard.
	ErrDegraded = errors.New("store degraded")
)

// Scope binds every data access call to one tenant on behalf of one actor.
// Constructing a scope is the single place the tenant isolation invariant
// is enforced: there is no query path without one.
type Scope struct {
	TenantID string
	Actor    *models.User
}

// NewScope validates the (tenantID, actor) pair. Non-super-admin actors may
// only scope to their own tenant. Super admins have no implicit tenant and
// must always name one explicitly; there is no all-tenants query path.
func NewScope(tenantID string, actor *models.User) (Scope, error) {
	if actor == nil || !actor.IsActive() {
		return Scope{}, ErrTenantMismatch
	}
	if tenantID == "" {
		return Scope{}, ErrTenantMismatch
	}
	if !actor.IsSuperAdmin() && actor.TenantID != tenantID {
		return Scope{}, ErrTenantMismatch
	}
	return Scope{TenantID: tenantID, Actor: actor}, nil
}
