package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StreamName is the JetStream stream carrying all inventory events
const StreamName = "INVENTORY_EVENTS"

// Event types
const (
	TypeMovementRecorded = "movement.recorded"
	TypeStockAlert       = "stock.alert"
)

// Envelope is the common wire structure for tenant-scoped events
type Envelope struct {
	Type      string          `json:"type"`
	TenantID  string          `json:"tenantId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// MovementRecorded is published after every successful movement write. It
// is advisory: a missed event only delays a dashboard refresh because the
// cache TTL bounds staleness independently.
type MovementRecorded struct {
	MovementID    string          `json:"movementId"`
	ProductID     string          `json:"productId"`
	Direction     string          `json:"direction"`
	TotalQuintals decimal.Decimal `json:"totalQuintals"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// StockAlert is published when a product crosses the low-stock threshold
type StockAlert struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Level       decimal.Decimal `json:"level"`
	Severity    string          `json:"severity"`
}

// SubjectFor builds the tenant-scoped subject for an event type:
// inventory.{tenant}.{type}
func SubjectFor(tenantID, eventType string) string {
	return fmt.Sprintf("inventory.%s.%s", tenantID, eventType)
}
