package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agrihub/inventory-service/internal/models"
)

// PreferenceRepository persists per-user dashboard preferences
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetPreference returns the user's stored preference, or ErrNotFound
func (r *PreferenceRepository) GetPreference(ctx context.Context, userID uuid.UUID) (*models.DashboardPreference, error) {
	var pref models.DashboardPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// SavePreference upserts the user's preference row
func (r *PreferenceRepository) SavePreference(ctx context.Context, pref *models.DashboardPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(pref).Error
}
