// Package websocket upgrades editor connections and hands them to the hub.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/hub"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/middleware"
)

// WebSocketHandler upgrades HTTP requests to websocket connections and
// registers the resulting client with the hub. Room membership is
// established later by the client's roomInit event.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

// NewWebSocketHandler creates a WebSocketHandler. allowedOrigins is the
// set of origins permitted to connect; empty allows all.
func NewWebSocketHandler(h *hub.Hub, allowedOrigins []string) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}

	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			return origins[r.Header.Get("Origin")]
		},
	}

	return &WebSocketHandler{upgrader: upgrader, hub: h}
}

// HandleConnection handles GET /ws. Runs behind OptionalAuth: a missing or
// invalid token connects as an anonymous collaborator (user id 0).
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userID := middleware.UserID(c)
	logCtx := logrus.WithField("user_id", userID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, userID)
	logCtx = logCtx.WithField("conn_id", client.ConnID())

	registerMsg := hub.HubMessage{Type: "register", Client: client}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		conn.Close()
		return
	}

	client.Run()
	logCtx.Info("WS Handler: Connection upgraded, client pumps started")
}
