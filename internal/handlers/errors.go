package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
	"github.com/agrihub/inventory-service/internal/repository"
)

// respondError maps service errors to HTTP status codes. Authorization
// failures and cross-tenant access produce the same response so a caller
// cannot distinguish "forbidden" from "exists in another tenant".
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized), errors.Is(err, repository.ErrTenantMismatch):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACCESS_DENIED",
				"message": "You do not have access to this resource.",
			},
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Resource not found.",
			},
		})
	case errors.Is(err, periods.ErrInvalidPeriod),
		errors.Is(err, models.ErrInvalidBags),
		errors.Is(err, models.ErrInvalidWeight),
		errors.Is(err, models.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
	case errors.Is(err, repository.ErrDegraded):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DEGRADED",
				"message": "The data store is temporarily unavailable. Try again shortly.",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL",
				"message": "Internal server error.",
			},
		})
	}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
