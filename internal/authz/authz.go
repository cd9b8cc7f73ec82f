package authz

import (
	"errors"

	"github.com/agrihub/inventory-service/internal/models"
)

// ErrUnauthorized signals that the actor lacks the capability for an
// action. Boundary code must present it as an access denial without
// revealing whether the resource exists.
var ErrUnauthorized = errors.New("unauthorized")

// Action is a capability checked against the role permission table
type Action string

const (
	ActionManageUsers          Action = "manage_users"
	ActionManageTenantSettings Action = "manage_tenant_settings"
	ActionManageInventory      Action = "manage_inventory"
	ActionViewReports          Action = "view_reports"
	ActionViewFinancials       Action = "view_financials"
	ActionViewAuditLogs        Action = "view_audit_logs"
	ActionManagePreferences    Action = "manage_preferences"
)

// permissions is the explicit role x action table. Super admin is handled
// before the lookup; every combination missing here is denied (fail-closed).
var permissions = map[models.Role]map[Action]bool{
	models.RoleCompanyAdmin: {
		ActionManageUsers:          true,
		ActionManageTenantSettings: true,
		ActionManageInventory:      true,
		ActionViewReports:          true,
		ActionViewFinancials:       true,
		ActionViewAuditLogs:        true,
		ActionManagePreferences:    true,
	},
	models.RoleOperator: {
		ActionManageInventory:   true,
		ActionViewReports:       true,
		ActionViewFinancials:    true,
		ActionManagePreferences: true,
	},
	models.RoleViewer: {
		ActionViewReports:       true,
		ActionManagePreferences: true,
	},
}

// Can decides whether the actor may perform action against a resource owned
// by resourceTenantID. It is a pure total function: identical inputs yield
// identical output and it never errors. An empty resourceTenantID means the
// resource is the actor's own tenant.
func Can(actor *models.User, action Action, resourceTenantID string) bool {
	if actor == nil || !actor.IsActive() {
		return false
	}
	if actor.Role == models.RoleSuperAdmin {
		return true
	}
	if actor.TenantID == "" {
		return false
	}
	if resourceTenantID != "" && resourceTenantID != actor.TenantID {
		return false
	}
	allowed, ok := permissions[actor.Role]
	if !ok {
		return false
	}
	return allowed[action]
}

// Authorize wraps Can and returns ErrUnauthorized instead of a silent
// no-op when the check fails.
func Authorize(actor *models.User, action Action, resourceTenantID string) error {
	if !Can(actor, action, resourceTenantID) {
		return ErrUnauthorized
	}
	return nil
}
