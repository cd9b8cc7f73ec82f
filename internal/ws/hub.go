package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// RefreshMessage tells a dashboard session that fresh data is available
// for its tenant. The client re-requests affected widgets; the message
// carries no data itself.
type RefreshMessage struct {
	Type     string          `json:"type"`
	TenantID string          `json:"tenantId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Hub tracks the active dashboard sessions per tenant and pushes refresh
// signals to all of them. Losing a message is harmless; the cache TTL
// bounds staleness independently.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // tenantID -> clients

	register   chan *Client
	unregister chan *Client
	shutdown   chan struct{}

	logger *logrus.Logger
}

// NewHub creates a new hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		shutdown:   make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's main loop; call in a goroutine
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.shutdown:
			h.closeAll()
			return
		}
	}
}

// Shutdown closes every session and stops the loop
func (h *Hub) Shutdown() {
	close(h.shutdown)
}

// Register adds a session to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a session from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToTenant pushes a refresh message to every session of a tenant.
// Slow clients are skipped rather than blocked on.
func (h *Hub) BroadcastToTenant(tenantID string, msg RefreshMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal refresh message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[tenantID] {
		select {
		case client.send <- data:
		default:
			h.logger.WithField("tenant_id", tenantID).Debug("Dropping refresh for slow client")
		}
	}
}

// SessionCount returns the number of active sessions for a tenant
func (h *Hub) SessionCount(tenantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tenantID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.TenantID] == nil {
		h.clients[client.TenantID] = make(map[*Client]struct{})
	}
	h.clients[client.TenantID][client] = struct{}{}
	h.logger.WithFields(logrus.Fields{
		"tenant_id": client.TenantID,
		"user_id":   client.UserID,
	}).Debug("Dashboard session connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessions, ok := h.clients[client.TenantID]; ok {
		if _, ok := sessions[client]; ok {
			delete(sessions, client)
			close(client.send)
			if len(sessions) == 0 {
				delete(h.clients, client.TenantID)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tenantID, sessions := range h.clients {
		for client := range sessions {
			close(client.send)
		}
		delete(h.clients, tenantID)
	}
}
