package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Client is one websocket connection bound to an authenticated user
type Client struct {
	ID   string
	Role string
	Send chan *Message

	hub    *Hub
	conn   *websocket.Conn
	logger *zap.Logger

	mu        sync.Mutex
	projectID string
	closed    bool
}

// NewClient wraps a websocket connection for the hub
func NewClient(id string, conn *websocket.Conn, hub *Hub, role string, logger *zap.Logger) *Client {
	return &Client{
		ID:     id,
		Role:   role,
		Send:   make(chan *Message, sendBufferSize),
		hub:    hub,
		conn:   conn,
		logger: logger,
	}
}

// GetProject returns the project room the client has joined, if any
func (c *Client) GetProject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectID
}

func (c *Client) setProject(projectID string) {
	c.mu.Lock()
	c.projectID = projectID
	c.mu.Unlock()
}

// SendMessage queues a message for delivery. Messages to slow clients are
// dropped rather than blocking the hub.
func (c *Client) SendMessage(msg *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.Send <- msg:
	default:
		c.logger.Warn("Dropping message to slow client", zap.String("client_id", c.ID), zap.String("type", msg.Type))
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.conn != nil {
		c.conn.Close()
	}
}

// ReadPump reads inbound messages and dispatches them to the hub until the
// connection drops. Runs as a goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
		c.hub.HandleMessage(c, &msg)
	}
}

// WritePump writes queued messages and keepalive pings to the connection.
// Runs as a goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
