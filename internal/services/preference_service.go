package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/audit"
	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/periods"
	"github.com/agrihub/inventory-service/internal/repository"
)

// PreferenceService manages per-user dashboard layouts. Preferences are
// strictly owner-scoped: no role, not even company admin, may read or
// write another user's layout.
type PreferenceService struct {
	store    repository.PreferenceStore
	recorder *audit.Recorder
	logger   *logrus.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(store repository.PreferenceStore, recorder *audit.Recorder, logger *logrus.Logger) *PreferenceService {
	return &PreferenceService{store: store, recorder: recorder, logger: logger}
}

// GetPreferences returns the actor's own dashboard preferences, falling
// back to the default layout when none are saved yet.
func (s *PreferenceService) GetPreferences(ctx context.Context, actor *models.User, userID uuid.UUID) (*models.DashboardPreference, error) {
	if err := s.authorizeOwner(actor, userID); err != nil {
		return nil, err
	}

	pref, err := s.store.GetPreference(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.DashboardPreference{
			UserID:        userID,
			DefaultPeriod: string(periods.DefaultSelector),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// SavePreferences upserts the actor's own dashboard preferences
func (s *PreferenceService) SavePreferences(ctx context.Context, actor *models.User, pref *models.DashboardPreference) error {
	if err := s.authorizeOwner(actor, pref.UserID); err != nil {
		return err
	}
	if pref.DefaultPeriod == "" {
		pref.DefaultPeriod = string(periods.DefaultSelector)
	}
	if err := validateDefaultPeriod(pref.DefaultPeriod); err != nil {
		return err
	}

	if err := s.store.SavePreference(ctx, pref); err != nil {
		return err
	}

	s.recorder.Record(ctx, actor, actor.TenantID, models.AuditActionSettingChange,
		models.AuditResourcePreference, pref.UserID.String(), map[string]interface{}{
			"defaultPeriod": pref.DefaultPeriod,
		})
	return nil
}

func (s *PreferenceService) authorizeOwner(actor *models.User, userID uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionManagePreferences, ""); err != nil {
		return err
	}
	if actor.ID != userID {
		return authz.ErrUnauthorized
	}
	return nil
}

func validateDefaultPeriod(selector string) error {
	switch periods.Selector(selector) {
	case periods.SelectorToday, periods.SelectorThisWeek, periods.SelectorThisMonth,
		periods.SelectorLastMonth, periods.SelectorThisQuarter, periods.SelectorThisYear:
		return nil
	default:
		return fmt.Errorf("%w: unknown default period %q", periods.ErrInvalidPeriod, selector)
	}
}
