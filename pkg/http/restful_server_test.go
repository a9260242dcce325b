package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/ridelink/sensorbridge/pkg/testing"

	"github.com/ridelink/sensorbridge/pkg/bridge"
	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/db"
	"github.com/ridelink/sensorbridge/pkg/hub"
	"github.com/ridelink/sensorbridge/pkg/models"
	"github.com/ridelink/sensorbridge/pkg/sim"
)

func setupTestServer() *RestfulServer {
	bridgeCore := bridge.Bridge{
		Db: *db.GetInstance(db.UseMemorySqliteDialector()),
	}
	bridgeCore.WithServices(bridge.ServiceOpts{
		Session:     bridgeCore.GetISession(),
		Calibration: bridgeCore.GetICalibration(),
	})

	wsHub := hub.NewHub()
	notifier := bridge.NewNotifier(wsHub, bridge.NotifierOpts{})
	validator := bridge.NewValidator()

	simDriver := sim.NewANTDriver(1)
	simDriver.Interval = 10 * time.Millisecond

	orchestrator := bridge.NewOrchestrator(&bridgeCore, validator, notifier, simDriver)
	orchestrator.StatusSink = wsHub

	rs := &RestfulServer{
		Server:       gin.Default(),
		Bridge:       &bridgeCore,
		Orchestrator: orchestrator,
		Notifier:     notifier,
		Hub:          wsHub,
	}

	rs.Setup()

	return rs
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSessionEndpoints(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	body, _ := json.Marshal(map[string]string{"name": "Test Ride " + uuid.NewString()})
	req := httptest.NewRequest("POST", "/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	sessionID := created["session_id"]
	require.NotEmpty(t, sessionID)

	// record one reading directly, then read it back over HTTP
	err := rs.Bridge.Session.RecordReading(&models.SensorReading{
		DeviceID:   uuid.NewString(),
		SessionID:  sessionID,
		Timestamp:  time.Now(),
		MetricType: models.MetricTypePower,
		Value:      250,
		Unit:       "watts",
		Quality:    100,
	})
	require.NoError(t, err)

	readReq := httptest.NewRequest("GET", "/sessions/"+sessionID+"/readings", nil)
	readW := httptest.NewRecorder()
	rs.Server.ServeHTTP(readW, readReq)

	require.Equal(t, http.StatusOK, readW.Code)
	var readings []models.SensorReading
	require.NoError(t, json.Unmarshal(readW.Body.Bytes(), &readings))
	require.Len(t, readings, 1)
	assert.Equal(t, 250.0, readings[0].Value)

	endReq := httptest.NewRequest("POST", "/sessions/"+sessionID+"/end", nil)
	endW := httptest.NewRecorder()
	rs.Server.ServeHTTP(endW, endReq)
	assert.Equal(t, http.StatusOK, endW.Code)
}

func TestCalibrationEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	// empty payload should be rejected
	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/calibration", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ := json.Marshal(CalibrationRequest{
		MetricType: "power",
		Offset:     5,
		Multiplier: 1.01,
	})
	req = httptest.NewRequest("POST", "/devices/"+deviceID+"/calibration", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cal, found := rs.Bridge.Calibration.GetCalibration(deviceID, models.MetricTypePower)
	require.True(t, found)
	assert.Equal(t, 5.0, cal.Offset)
}

func TestScanEndpoints(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	defer rs.Orchestrator.StopScan()

	req := httptest.NewRequest("POST", "/scan/start", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, rs.Orchestrator.Scanning())

	stopReq := httptest.NewRequest("POST", "/scan/stop", nil)
	stopW := httptest.NewRecorder()
	rs.Server.ServeHTTP(stopW, stopReq)

	assert.Equal(t, http.StatusOK, stopW.Code)
	assert.False(t, rs.Orchestrator.Scanning())
}

func TestNotifierContextEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	body, _ := json.Marshal(map[string]string{"context": "active-session"})
	req := httptest.NewRequest("POST", "/notifier/context", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bridge.ContextActiveSession, rs.Notifier.Context())

	// unknown context rejected
	body, _ = json.Marshal(map[string]string{"context": "party-mode"})
	req = httptest.NewRequest("POST", "/notifier/context", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotifierLimiterEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	body, _ := json.Marshal(LimiterRequest{Key: "sensor-data-active-session", Rate: 5, Burst: 10})
	req := httptest.NewRequest("POST", "/notifier/limiter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	limiter := rs.Notifier.Admission.GetLimiter("sensor-data-active-session")
	assert.Equal(t, 10, limiter.Burst())
}

func TestWebsocketSubscribeAndHeartbeat(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	server := httptest.NewServer(rs.Server)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return rs.Hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	subscribe, _ := json.Marshal(map[string]string{"type": "subscribe", "channel": hub.ChannelScanStatus})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, subscribe))

	heartbeat, _ := json.Marshal(map[string]string{"type": "heartbeat"})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, heartbeat))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var ack map[string]any
	require.NoError(t, json.Unmarshal(message, &ack))
	assert.Equal(t, "heartbeat-ack", ack["type"])
}
