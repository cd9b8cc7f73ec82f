package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/repository"
)

// Recorder appends audit entries without ever failing the caller's
// operation. The action an entry describes has already happened; losing
// the entry is logged, not propagated.
type Recorder struct {
	store  repository.AuditStore
	logger *logrus.Logger
}

// NewRecorder creates a new audit recorder
func NewRecorder(store repository.AuditStore, logger *logrus.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends one audit entry. The changes map is serialized as the
// entry's JSON payload; a nil map records no payload.
func (r *Recorder) Record(ctx context.Context, actor *models.User, tenantID string,
	action models.AuditAction, resource models.AuditResource, resourceID string,
	changes map[string]interface{}) {

	if r == nil || r.store == nil {
		return
	}

	entry := &models.AuditLogEntry{
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
	}
	if actor != nil && actor.ID != uuid.Nil {
		id := actor.ID
		entry.UserID = &id
	}
	if tenantID != "" {
		t := tenantID
		entry.TenantID = &t
	}
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			r.logger.WithError(err).Warn("Failed to marshal audit changes")
		} else {
			entry.Changes = datatypes.JSON(data)
		}
	}

	if err := r.store.AppendAuditEntry(ctx, entry); err != nil {
		r.logger.WithFields(logrus.Fields{
			"action":      action,
			"resource":    resource,
			"resource_id": resourceID,
		}).WithError(err).Error("Failed to append audit entry")
	}
}

// RecordAccessDenied notes a rejected authorization attempt
func (r *Recorder) RecordAccessDenied(ctx context.Context, actor *models.User, tenantID string,
	resource models.AuditResource, resourceID string) {
	r.Record(ctx, actor, tenantID, models.AuditActionAccessDenied, resource, resourceID, nil)
}
