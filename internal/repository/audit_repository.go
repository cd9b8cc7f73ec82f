package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/agrihub/inventory-service/internal/models"
)

// AuditRepository appends and lists immutable audit entries. There is no
// update or delete path.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// AppendAuditEntry inserts one append-only entry
func (r *AuditRepository) AppendAuditEntry(ctx context.Context, entry *models.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAuditEntries returns the scoped tenant's entries, newest first
func (r *AuditRepository) ListAuditEntries(ctx context.Context, scope Scope, limit, offset int) ([]models.AuditLogEntry, int64, error) {
	var entries []models.AuditLogEntry
	var total int64

	q := r.db.WithContext(ctx).Model(&models.AuditLogEntry{}).
		Where("tenant_id = ?", scope.TenantID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if err := q.Order("timestamp DESC, id DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
