package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/models"
)

const (
	ChannelSensorData    = "sensor-data"
	ChannelDeviceEvents  = "device-events"
	ChannelSessionEvents = "session-events"
	ChannelNotifications = "intelligent-notification"
	ChannelScanStatus    = "scan-status"
)

const (
	DefaultSuperviseInterval = 30 * time.Second
	DefaultUnhealthyAfter    = 120 * time.Second
	DefaultRemoveAfter       = 300 * time.Second
)

type envelope struct {
	Channel   string    `json:"channel"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub owns all live connections and supervises their liveness. Per
// connection: Connected -> Healthy <-> Unhealthy(probed) -> Removed;
// any heartbeat flips back to Healthy, Removed is terminal.
type Hub struct {
	SuperviseInterval time.Duration
	UnhealthyAfter    time.Duration
	RemoveAfter       time.Duration

	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
	done    chan struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		SuperviseInterval: DefaultSuperviseInterval,
		UnhealthyAfter:    DefaultUnhealthyAfter,
		RemoveAfter:       DefaultRemoveAfter,
		clients:           make(map[string]*Client),
		done:              make(chan struct{}),
		now:               time.Now,
	}
}

// Run drives the supervisory tick until Shutdown.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.SuperviseInterval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.superviseConnections()
		}
	}
}

func (h *Hub) Register(conn Conn) *Client {
	client := &Client{
		ID:            uuid.NewString(),
		ConnectedAt:   h.now(),
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		channels:      make(map[string]struct{}),
		lastHeartbeat: h.now(),
		healthy:       true,
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	h.logger().Info("Client connected", zap.String("client_id", client.ID))
	return client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	client, ok := h.clients[clientID]
	if ok {
		delete(h.clients, clientID)
	}
	h.mu.Unlock()

	if ok {
		client.close()
		h.logger().Info("Client disconnected", zap.String("client_id", clientID))
	}
}

func (h *Hub) Subscribe(clientID, channel string) bool {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	client.mu.Lock()
	client.channels[channel] = struct{}{}
	client.mu.Unlock()
	return true
}

func (h *Hub) Unsubscribe(clientID, channel string) bool {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	client.mu.Lock()
	delete(client.channels, channel)
	client.mu.Unlock()
	return true
}

// Heartbeat records client liveness and acknowledges. Any heartbeat makes
// an unhealthy connection healthy again.
func (h *Hub) Heartbeat(clientID string) bool {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	client.mu.Lock()
	client.lastHeartbeat = h.now()
	client.healthy = true
	client.reconnectAttempts = 0
	client.mu.Unlock()

	if ack, err := json.Marshal(map[string]any{"type": "heartbeat-ack", "timestamp": h.now()}); err == nil {
		client.trySend(ack)
	}
	return true
}

// Broadcast fans an event out to every connection subscribed to the
// channel. A failed send marks only that connection unhealthy.
func (h *Hub) Broadcast(channel string, payload any) (delivered, failed int) {
	message, err := json.Marshal(envelope{Channel: channel, Payload: payload, Timestamp: h.now()})
	if err != nil {
		h.logger().Warn("Failed to marshal broadcast", zap.String("channel", channel), zap.Error(err))
		return 0, 0
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.Subscribed(channel) {
			continue
		}
		if client.trySend(message) {
			delivered++
		} else {
			failed++
		}
	}

	if failed > 0 {
		h.logger().Warn("Broadcast had failures",
			zap.String("channel", channel),
			zap.Int("delivered", delivered),
			zap.Int("failed", failed))
	}
	return delivered, failed
}

// Deliver routes a throttled notification onto its transport channel.
func (h *Hub) Deliver(n *models.Notification) {
	switch n.Type {
	case models.NotificationTypeSensorData:
		h.Broadcast(ChannelSensorData, n.Payload)
	case models.NotificationTypeDiscovery, models.NotificationTypeConnection:
		h.Broadcast(ChannelDeviceEvents, notificationBody(n))
	case models.NotificationTypeSession:
		h.Broadcast(ChannelSessionEvents, notificationBody(n))
	default:
		h.Broadcast(ChannelNotifications, notificationBody(n))
	}
}

// ScanStatus implements the orchestrator's status sink.
func (h *Hub) ScanStatus(scanning bool) {
	h.Broadcast(ChannelScanStatus, map[string]any{"scanning": scanning})
}

func notificationBody(n *models.Notification) map[string]any {
	body := map[string]any{
		"id":       n.ID,
		"type":     string(n.Type),
		"priority": n.Priority,
		"message":  n.Message,
		"context":  n.Context,
	}
	if n.DeviceID != "" {
		body["deviceId"] = n.DeviceID
	}
	if n.DeviceName != "" {
		body["deviceName"] = n.DeviceName
	}
	if n.Payload != nil {
		body["payload"] = n.Payload
	}
	return body
}

// superviseConnections marks silent connections unhealthy, probes them,
// and removes the ones that stayed silent past RemoveAfter.
func (h *Hub) superviseConnections() {
	now := h.now()

	h.mu.Lock()
	var probe []*Client
	var remove []*Client
	for id, client := range h.clients {
		client.mu.Lock()
		silent := now.Sub(client.lastHeartbeat)
		switch {
		case silent > h.RemoveAfter:
			remove = append(remove, client)
			delete(h.clients, id)
		case silent > h.UnhealthyAfter:
			client.healthy = false
			client.reconnectAttempts++
			probe = append(probe, client)
		}
		client.mu.Unlock()
	}
	h.mu.Unlock()

	if ping, err := json.Marshal(map[string]any{"type": "ping", "timestamp": now}); err == nil {
		for _, client := range probe {
			client.trySend(ping)
		}
	}

	for _, client := range remove {
		client.close()
		h.logger().Info("Removed silent client", zap.String("client_id", client.ID))
	}
}

// Shutdown stops supervision, tells every connection the server is going
// away, waits out the grace period and closes the transports.
func (h *Hub) Shutdown(grace time.Duration) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.done)
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	if notice, err := json.Marshal(map[string]any{
		"type":      "server-shutdown",
		"message":   "Server shutting down",
		"timestamp": h.now(),
	}); err == nil {
		for _, client := range clients {
			client.trySend(notice)
		}
	}

	time.Sleep(grace)

	for _, client := range clients {
		client.close()
	}
	h.logger().Info("Hub shut down", zap.Int("clients", len(clients)))
}

// ClientCount is used by supervision tests and the HTTP surface.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) client(clientID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[clientID]
}

func (h *Hub) logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameHub)
}
