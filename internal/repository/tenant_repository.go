package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/agrihub/inventory-service/internal/models"
)

// TenantRepository resolves tenants by id or slug
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// GetTenant looks a tenant up by id or slug
func (r *TenantRepository) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Where("id::text = ? OR slug = ?", id, id).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ListActiveTenants returns every active tenant, used by background sweeps
func (r *TenantRepository) ListActiveTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}
