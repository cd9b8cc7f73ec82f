package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrihub/inventory-service/internal/models"
)

const actorContextKey = "actor"

// AuthMiddleware builds the acting user from identity headers. The
// gateway in front of this service terminates authentication and passes
// the verified identity along; this middleware only reconstructs it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth for health check endpoints
		if strings.HasPrefix(c.Request.URL.Path, "/health") ||
			strings.HasPrefix(c.Request.URL.Path, "/ready") ||
			strings.HasPrefix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
		role := models.Role(c.GetHeader("X-User-Role"))
		if err != nil || role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTH_REQUIRED",
					"message": "Missing or invalid identity headers.",
				},
			})
			c.Abort()
			return
		}

		actor := &models.User{
			ID:       userID,
			Email:    c.GetHeader("X-User-Email"),
			Role:     role,
			TenantID: c.GetHeader("X-Tenant-ID"),
			Status:   models.UserActive,
		}
		if c.GetHeader("X-User-Status") == string(models.UserInactive) {
			actor.Status = models.UserInactive
		}

		c.Set(actorContextKey, actor)
		c.Set("user_id", userID.String())
		c.Next()
	}
}

// GetActor retrieves the acting user from gin context
func GetActor(c *gin.Context) *models.User {
	val, ok := c.Get(actorContextKey)
	if !ok {
		return nil
	}
	actor, _ := val.(*models.User)
	return actor
}
