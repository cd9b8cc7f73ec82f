package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Publisher publishes tenant-scoped inventory events. Publishing is
// nil-safe and best-effort: a disconnected broker never fails the caller's
// write path.
type Publisher struct {
	client *Client
	logger *logrus.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(client *Client, logger *logrus.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Publish marshals the payload into an envelope and publishes it to the
// tenant-scoped subject
func (p *Publisher) Publish(ctx context.Context, tenantID, eventType string, payload interface{}) error {
	if p == nil || p.client == nil || !p.client.IsConnected() {
		if p != nil && p.logger != nil {
			p.logger.Debug("NATS not connected, skipping event publish")
		}
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	data, err := json.Marshal(Envelope{
		Type:      eventType,
		TenantID:  tenantID,
		Timestamp: time.Now(),
		Payload:   raw,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := SubjectFor(tenantID, eventType)
	if _, err := p.client.JetStream().Publish(subject, data, nats.Context(ctx)); err != nil {
		p.logger.WithFields(logrus.Fields{
			"tenant_id": tenantID,
			"type":      eventType,
			"subject":   subject,
		}).WithError(err).Error("Failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// PublishMovementRecorded publishes a movement write notification
func (p *Publisher) PublishMovementRecorded(ctx context.Context, tenantID string, ev MovementRecorded) error {
	return p.Publish(ctx, tenantID, TypeMovementRecorded, ev)
}

// PublishStockAlert publishes a low/out-of-stock alert
func (p *Publisher) PublishStockAlert(ctx context.Context, tenantID string, ev StockAlert) error {
	return p.Publish(ctx, tenantID, TypeStockAlert, ev)
}
