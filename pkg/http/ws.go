package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ridelink/sensorbridge/pkg/common"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsCommand is the inbound message shape on the live-view socket.
type wsCommand struct {
	Type     string `json:"type"`
	Channel  string `json:"channel,omitempty"`
	DeviceID string `json:"deviceId,omitempty"`
}

// ServeWs upgrades the request and runs the client's read loop until the
// peer goes away.
func (rs *RestfulServer) ServeWs(c *gin.Context) {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := rs.Hub.Register(conn)
	go client.WritePump()

	defer rs.Hub.Unregister(client.ID)

	conn.SetReadLimit(1024)
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Websocket read error", zap.String("client_id", client.ID), zap.Error(err))
			}
			return
		}

		var cmd wsCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			logger.Warn("Ignoring malformed ws command", zap.String("client_id", client.ID))
			continue
		}

		rs.handleWsCommand(client.ID, cmd)
	}
}

func (rs *RestfulServer) handleWsCommand(clientID string, cmd wsCommand) {
	switch cmd.Type {
	case "subscribe":
		rs.Hub.Subscribe(clientID, cmd.Channel)
	case "unsubscribe":
		rs.Hub.Unsubscribe(clientID, cmd.Channel)
	case "heartbeat":
		rs.Hub.Heartbeat(clientID)
	case "start-scanning":
		if rs.CheckCommandLimiter("scan") {
			rs.Orchestrator.StartScan(0)
		}
	case "stop-scanning":
		rs.Orchestrator.StopScan()
	case "connect-device":
		rs.Orchestrator.Connect(cmd.DeviceID)
	case "disconnect-device":
		rs.Orchestrator.Disconnect(cmd.DeviceID)
	}
}

// Shutdown gives connected viewers their shutdown notice before the
// process exits.
func (rs *RestfulServer) Shutdown(grace time.Duration) {
	if rs.Hub != nil {
		rs.Hub.Shutdown(grace)
	}
}
