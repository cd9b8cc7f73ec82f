package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/repository"
)

// AuditService exposes the tenant's audit trail to admins
type AuditService struct {
	store  repository.AuditStore
	logger *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(store repository.AuditStore, logger *logrus.Logger) *AuditService {
	return &AuditService{store: store, logger: logger}
}

// ListEntries returns the tenant's audit entries, newest first
func (s *AuditService) ListEntries(ctx context.Context, actor *models.User, tenantID string, limit, offset int) ([]models.AuditLogEntry, int64, error) {
	if err := authz.Authorize(actor, authz.ActionViewAuditLogs, tenantID); err != nil {
		return nil, 0, err
	}
	scope, err := repository.NewScope(tenantID, actor)
	if err != nil {
		return nil, 0, err
	}
	return s.store.ListAuditEntries(ctx, scope, limit, offset)
}
