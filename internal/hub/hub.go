// Package hub maintains live websocket connections grouped by editing room
// and dispatches client events to the session coordinator.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Template saves carry whole
	// page trees.
	maxMessageSize = 4 << 20
)

// Client event types on the wire.
const (
	eventRoomInit     = "roomInit"
	eventSaveTemplate = "saveTemplate"
	eventThumbnail    = "thumbnail"
)

// ThumbnailEnqueuer pushes a thumbnail render job onto the task queue.
// Implemented by tasks.Enqueuer.
type ThumbnailEnqueuer interface {
	EnqueueThumbnailRender(ctx context.Context, templateID, html string) error
}

// HubMessage is the internal channel message between clients and the hub
// loop. Type is "register", "unregister" or "event".
type HubMessage struct {
	Type    string
	Client  *Client
	RawData []byte
}

// Hub owns the room membership maps and runs the single event loop that
// mutates them. Save processing is handed off per event so a slow blob
// write never stalls the loop.
type Hub struct {
	messageChan chan HubMessage

	// rooms maps roomID -> connected clients; conns maps connID -> client.
	rooms   map[string]map[*Client]bool
	conns   map[string]*Client
	roomsMu sync.RWMutex

	session  *service.SessionService
	enqueuer ThumbnailEnqueuer
}

// NewHub creates a Hub. The session service is attached after construction
// because it broadcasts through the hub.
func NewHub(enqueuer ThumbnailEnqueuer) *Hub {
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		rooms:       make(map[string]map[*Client]bool),
		conns:       make(map[string]*Client),
		enqueuer:    enqueuer,
	}
}

// AttachSession binds the session coordinator. Must be called before Run.
func (h *Hub) AttachSession(session *service.SessionService) {
	if session == nil {
		panic("SessionService cannot be nil for Hub")
	}
	h.session = session
}

// Run drives the hub event loop. It should run in its own goroutine and
// exits when messageChan is closed.
func (h *Hub) Run() {
	if h.session == nil {
		panic("Hub started without an attached SessionService")
	}
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		case "event":
			h.dispatchEvent(msg.Client, msg.RawData)
		default:
			log.Warnf("Received unknown hub message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down...")
}

// registerClient tracks a fresh connection. Room membership starts on the
// first roomInit event.
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	h.roomsMu.Lock()
	h.conns[client.connID] = client
	h.roomsMu.Unlock()
	logrus.WithFields(logrus.Fields{
		"conn_id": client.connID,
		"user_id": client.userID,
	}).Info("Client registered to Hub")
}

// unregisterClient removes the connection from its room and the registry
// and closes its send channel, which stops its WritePump.
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to unregister a nil client")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"conn_id": client.connID,
		"user_id": client.userID,
	})

	h.roomsMu.Lock()
	delete(h.conns, client.connID)
	if client.roomID != "" {
		if roomClients, ok := h.rooms[client.roomID]; ok {
			delete(roomClients, client)
			if len(roomClients) == 0 {
				delete(h.rooms, client.roomID)
				logCtx.WithField("room_id", client.roomID).Info("Room empty, removed from Hub")
			}
		}
	}
	if !client.closed {
		client.closed = true
		close(client.send)
	}
	h.roomsMu.Unlock()

	h.session.HandleLeave(client.connID)
	logCtx.Info("Client unregistered from Hub")
}

// dispatchEvent decodes the event envelope and routes it. Malformed
// payloads are dropped with a warning; the connection stays up.
func (h *Hub) dispatchEvent(client *Client, raw []byte) {
	if client == nil {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"conn_id": client.connID,
		"user_id": client.userID,
	})

	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		logCtx.WithError(err).Warn("Dropping malformed client event")
		return
	}

	switch env.Type {
	case eventRoomInit:
		h.handleRoomInit(client, raw, logCtx)
	case eventSaveTemplate:
		h.handleSaveTemplate(client, raw, logCtx)
	case eventThumbnail:
		h.handleThumbnail(client, raw, logCtx)
	default:
		logCtx.WithField("event_type", env.Type).Warn("Dropping unknown client event")
	}
}

// handleRoomInit joins the connection to a room. A second roomInit moves
// the connection: it leaves its previous room first.
func (h *Hub) handleRoomInit(client *Client, raw []byte, logCtx *logrus.Entry) {
	var payload struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == "" {
		logCtx.Warn("roomInit event missing room id")
		return
	}

	h.roomsMu.Lock()
	if client.roomID != "" && client.roomID != payload.RoomID {
		if prev, ok := h.rooms[client.roomID]; ok {
			delete(prev, client)
			if len(prev) == 0 {
				delete(h.rooms, client.roomID)
			}
		}
	}
	if _, ok := h.rooms[payload.RoomID]; !ok {
		h.rooms[payload.RoomID] = make(map[*Client]bool)
	}
	h.rooms[payload.RoomID][client] = true
	client.roomID = payload.RoomID
	h.roomsMu.Unlock()

	h.session.HandleJoin(client.connID, client.userID, payload.RoomID)
}

// handleSaveTemplate hands the save to the session coordinator off the hub
// loop. Failures are logged only; the client is never notified of an
// individual save failure.
func (h *Hub) handleSaveTemplate(client *Client, raw []byte, logCtx *logrus.Entry) {
	var req service.SaveRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		logCtx.WithError(err).Warn("Dropping malformed saveTemplate event")
		return
	}
	if req.TemplateID == "" {
		logCtx.Warn("saveTemplate event missing template id")
		return
	}

	connID, userID := client.connID, client.userID
	go func() {
		outcome := h.session.HandleSave(context.Background(), connID, userID, req)
		if outcome.Status == service.SaveStatusFailed {
			logCtx.WithError(outcome.Err).WithField("template_id", req.TemplateID).Error("Template save failed")
		}
	}()
}

// handleThumbnail enqueues a background render of the template preview.
func (h *Hub) handleThumbnail(client *Client, raw []byte, logCtx *logrus.Entry) {
	if h.enqueuer == nil {
		logCtx.Debug("Thumbnail rendering disabled, dropping event")
		return
	}
	var payload struct {
		TemplateID string `json:"templateId"`
		HTML       string `json:"html"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.TemplateID == "" {
		logCtx.Warn("Dropping malformed thumbnail event")
		return
	}

	go func() {
		if err := h.enqueuer.EnqueueThumbnailRender(context.Background(), payload.TemplateID, payload.HTML); err != nil {
			logCtx.WithError(err).WithField("template_id", payload.TemplateID).Error("Failed to enqueue thumbnail render")
		}
	}()
}

// BroadcastToRoom sends a message to every client in the room, the sender
// included. Implements service.Broadcaster. The hub lock is held across the
// sends so an unregister cannot close a send channel mid-broadcast; the
// sends are non-blocking, so the lock is never held on a full channel.
func (h *Hub) BroadcastToRoom(roomID string, message []byte) {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok || len(roomClients) == 0 {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":         roomID,
		"message_size":    len(message),
		"recipient_count": len(roomClients),
	})
	logCtx.Debug("Broadcasting message to room")

	for client := range roomClients {
		if client.closed {
			continue
		}
		// Non-blocking send so one slow client cannot stall the room.
		select {
		case client.send <- message:
		default:
			logCtx.WithField("receiver_conn_id", client.connID).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}

// QueueMessage puts a message on the hub loop without blocking. Returns
// false when the queue is full.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// RoomSize reports the number of connected clients in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	return len(h.rooms[roomID])
}
