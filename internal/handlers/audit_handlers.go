package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/middleware"
	"github.com/agrihub/inventory-service/internal/services"
)

// AuditHandlers exposes the tenant audit trail
type AuditHandlers struct {
	service *services.AuditService
	logger  *logrus.Logger
}

// NewAuditHandlers creates a new audit handlers instance
func NewAuditHandlers(service *services.AuditService, logger *logrus.Logger) *AuditHandlers {
	return &AuditHandlers{
		service: service,
		logger:  logger,
	}
}

// ListAuditEntries returns the tenant's audit entries, newest first
// GET /api/v1/audit
func (h *AuditHandlers) ListAuditEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, total, err := h.service.ListEntries(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c), limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list audit entries")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"total":   total,
	})
}
