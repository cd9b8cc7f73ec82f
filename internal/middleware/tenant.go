package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/repository"
)

// TenantMiddleware resolves the X-Tenant-ID header (a tenant id or slug)
// against the tenant store and rejects unknown or deactivated tenants.
// Every request past this point carries a resolved, active tenant id.
func TenantMiddleware(tenants repository.TenantStore, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		slugOrID := c.GetHeader("X-Tenant-ID")
		if slugOrID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TENANT_REQUIRED",
					"message": "Tenant ID is required. Include the X-Tenant-ID header.",
				},
			})
			c.Abort()
			return
		}

		tenant, err := tenants.GetTenant(c.Request.Context(), slugOrID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logger.WithError(err).Error("Tenant lookup failed")
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TENANT_NOT_FOUND",
					"message": "Unable to resolve tenant. Tenant not found or invalid.",
				},
			})
			c.Abort()
			return
		}

		if !tenant.Active {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TENANT_INACTIVE",
					"message": "Tenant is deactivated.",
				},
			})
			c.Abort()
			return
		}

		// The actor carries the same raw header value (id or slug); once
		// the header resolves, rewrite the actor's tenant to the canonical
		// id so authorization and scoping compare like with like.
		if actor := GetActor(c); actor != nil && !actor.IsSuperAdmin() {
			if actor.TenantID == slugOrID || actor.TenantID == tenant.Slug {
				actor.TenantID = tenant.ID.String()
			}
		}

		c.Set("tenant_id", tenant.ID.String())
		c.Set("tenant_slug", tenant.Slug)
		c.Next()
	}
}

// GetTenantID retrieves the resolved tenant ID from gin context
func GetTenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}
