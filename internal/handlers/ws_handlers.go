package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/middleware"
	"github.com/agrihub/inventory-service/internal/ws"
)

// WSHandlers upgrades dashboard sessions to websocket connections
type WSHandlers struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewWSHandlers creates a new websocket handlers instance
func NewWSHandlers(hub *ws.Hub, logger *logrus.Logger) *WSHandlers {
	return &WSHandlers{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens at the CORS layer in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Connect upgrades the request and registers the session with the hub
// GET /ws
func (h *WSHandlers) Connect(c *gin.Context) {
	actor := middleware.GetActor(c)
	tenantID := middleware.GetTenantID(c)
	if err := authz.Authorize(actor, authz.ActionViewReports, tenantID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, tenantID, actor.ID.String(), h.logger)
	h.hub.Register(client)
	client.Start()
}
