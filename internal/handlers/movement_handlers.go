package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/middleware"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
	"github.com/agrihub/inventory-service/internal/repository"
	"github.com/agrihub/inventory-service/internal/services"
)

// MovementHandlers handles stock transaction requests
type MovementHandlers struct {
	service *services.MovementService
	logger  *logrus.Logger
}

// NewMovementHandlers creates a new movement handlers instance
func NewMovementHandlers(service *services.MovementService, logger *logrus.Logger) *MovementHandlers {
	return &MovementHandlers{
		service: service,
		logger:  logger,
	}
}

// RecordStockIn records a purchase from a farmer
// POST /api/v1/movements/in
func (h *MovementHandlers) RecordStockIn(c *gin.Context) {
	h.record(c, h.service.RecordStockIn)
}

// RecordStockOut records a sale to a customer
// POST /api/v1/movements/out
func (h *MovementHandlers) RecordStockOut(c *gin.Context) {
	h.record(c, h.service.RecordStockOut)
}

func (h *MovementHandlers) record(c *gin.Context,
	fn func(ctx context.Context, actor *models.User, tenantID string, input services.MovementInput) (*models.StockMovement, error)) {

	var input services.MovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	movement, err := fn(c.Request.Context(), middleware.GetActor(c), middleware.GetTenantID(c), input)
	if err != nil {
		h.logger.WithError(err).Error("Failed to record movement")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": movement})
}

// ListMovements returns a filtered movement listing
// GET /api/v1/movements
func (h *MovementHandlers) ListMovements(c *gin.Context) {
	filter, err := parseMovementFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	movements, total, err := h.service.ListMovements(c.Request.Context(),
		middleware.GetActor(c), middleware.GetTenantID(c), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list movements")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    movements,
		"total":   total,
	})
}

func parseMovementFilter(c *gin.Context) (repository.MovementFilter, error) {
	filter := repository.MovementFilter{}

	if c.Query("from") != "" || c.Query("to") != "" || c.Query("period") != "" {
		period, err := parsePeriod(c)
		if err != nil {
			return filter, err
		}
		r := period.Current
		filter.Range = &r
	}

	if dir := c.Query("direction"); dir != "" {
		filter.Direction = models.MovementDirection(dir)
	}
	if pid := c.Query("productId"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return filter, periods.ErrInvalidPeriod
		}
		filter.ProductID = &id
	}

	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return filter, nil
}
