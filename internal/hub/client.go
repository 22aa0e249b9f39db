package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one websocket connection attached to the hub. roomID and closed
// are owned by the hub and only touched under the hub's lock; closed marks
// the send channel as closed so a late broadcast or second unregister never
// hits a closed channel.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	connID string
	userID uint
	roomID string
	closed bool
	send   chan []byte
}

// NewClient wraps an upgraded connection. userID 0 marks an anonymous
// collaborator.
func NewClient(h *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:    h,
		conn:   conn,
		connID: uuid.NewString(),
		userID: userID,
		send:   make(chan []byte, 256),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

func (c *Client) ConnID() string { return c.connID }
func (c *Client) UserID() uint   { return c.userID }

// ReadPump pumps messages from the websocket into the hub loop. Runs in
// its own goroutine; exiting triggers the unregister.
func (c *Client) ReadPump() {
	defer func() {
		unregisterMsg := HubMessage{Type: "unregister", Client: c}
		select {
		case c.hub.messageChan <- unregisterMsg:
		case <-time.After(1 * time.Second):
			logrus.WithField("conn_id", c.connID).Warn("Timeout sending unregister message to Hub channel")
		}
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"conn_id": c.connID, "user_id": c.userID}).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"conn_id": c.connID, "user_id": c.userID})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}

		if messageType != websocket.TextMessage {
			logrus.WithField("conn_id", c.connID).Debugf("Ignoring non-text message type: %d", messageType)
			continue
		}

		eventMsg := HubMessage{Type: "event", Client: c, RawData: message}
		select {
		case c.hub.messageChan <- eventMsg:
		default:
			logrus.WithField("conn_id", c.connID).Warn("Hub message channel full, dropping client message")
		}
	}
}

// WritePump pumps messages from the send channel to the websocket and
// keeps the connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"conn_id": c.connID, "user_id": c.userID}).Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel during unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithField("conn_id", c.connID).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithField("conn_id", c.connID).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
