package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	sendBuffer     = 64
	maxMessageSize = 1024
)

// Conn is the slice of *websocket.Conn the hub needs; tests substitute a
// capture fake.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live transport session. subscribedChannels only gates
// delivery; readings are stored regardless of who is listening.
type Client struct {
	ID          string
	ConnectedAt time.Time

	conn Conn
	send chan []byte

	mu                sync.Mutex
	channels          map[string]struct{}
	lastHeartbeat     time.Time
	healthy           bool
	reconnectAttempts int
	closeOnce         sync.Once
}

func (c *Client) Subscribed(channel string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.channels[channel]
	return ok
}

func (c *Client) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy
}

func (c *Client) markUnhealthy() {
	c.mu.Lock()
	c.healthy = false
	c.reconnectAttempts++
	c.mu.Unlock()
}

// trySend never blocks; a full buffer means the client is not keeping up
// and only that client is marked unhealthy.
func (c *Client) trySend(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		c.markUnhealthy()
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// WritePump drains the send buffer onto the transport. Run as one
// goroutine per client; gorilla connections do not allow concurrent
// writers.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for message := range c.send {
		if wc, ok := c.conn.(*websocket.Conn); ok {
			wc.SetWriteDeadline(time.Now().Add(writeWait))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.markUnhealthy()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
