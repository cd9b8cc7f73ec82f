package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/middleware"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/services"
)

// PreferenceHandlers handles dashboard preference requests. Preferences
// belong to the acting user; there is no path to another user's layout.
type PreferenceHandlers struct {
	service *services.PreferenceService
	logger  *logrus.Logger
}

// NewPreferenceHandlers creates a new preference handlers instance
func NewPreferenceHandlers(service *services.PreferenceService, logger *logrus.Logger) *PreferenceHandlers {
	return &PreferenceHandlers{
		service: service,
		logger:  logger,
	}
}

// GetPreferences returns the caller's dashboard preferences
// GET /api/v1/preferences
func (h *PreferenceHandlers) GetPreferences(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor == nil {
		respondError(c, authz.ErrUnauthorized)
		return
	}

	pref, err := h.service.GetPreferences(c.Request.Context(), actor, actor.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get preferences")
		respondError(c, err)
		return
	}
	respondOK(c, pref)
}

// SavePreferences upserts the caller's dashboard preferences
// PUT /api/v1/preferences
func (h *PreferenceHandlers) SavePreferences(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor == nil {
		respondError(c, authz.ErrUnauthorized)
		return
	}

	var pref models.DashboardPreference
	if err := c.ShouldBindJSON(&pref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}
	pref.UserID = actor.ID

	if err := h.service.SavePreferences(c.Request.Context(), actor, &pref); err != nil {
		h.logger.WithError(err).Error("Failed to save preferences")
		respondError(c, err)
		return
	}
	respondOK(c, pref)
}
