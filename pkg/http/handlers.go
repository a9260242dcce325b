package http

import (
	"net/http"
	"time"

	"github.com/ridelink/sensorbridge/pkg/bridge"
	"github.com/ridelink/sensorbridge/pkg/models"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type ScanStartRequest struct {
	TimeoutMs int `json:"timeout_ms"`
}

var scanStartRequestSchema = z.Struct(z.Shape{
	"TimeoutMs": z.Int().GTE(0).Default(0),
})

func (rs *RestfulServer) StartScan(c *gin.Context) {
	if !rs.CheckCommandLimiter("scan") {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ScanStartRequest
	if err := scanStartRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.Orchestrator.StartScan(time.Duration(req.TimeoutMs) * time.Millisecond) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"scanning": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scanning": true})
}

func (rs *RestfulServer) StopScan(c *gin.Context) {
	rs.Orchestrator.StopScan()
	c.JSON(http.StatusOK, gin.H{"scanning": false})
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	c.JSON(http.StatusOK, rs.Orchestrator.Devices())
}

func (rs *RestfulServer) ConnectDevice(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.Orchestrator.Connect(deviceID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown device"})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) DisconnectDevice(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.Orchestrator.Disconnect(deviceID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown device"})
		return
	}

	c.Status(http.StatusOK)
}

type CalibrationRequest struct {
	MetricType string  `json:"metric_type"`
	Offset     float64 `json:"offset"`
	Multiplier float64 `json:"multiplier"`
}

var calibrationRequestSchema = z.Struct(z.Shape{
	"MetricType": z.String().Required(),
	"Offset":     z.Float64().Required(),
	"Multiplier": z.Float64().Required(),
})

func (rs *RestfulServer) UpsertCalibration(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckCommandLimiter("calibration") {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req CalibrationRequest
	if err := calibrationRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	calibration := models.Calibration{
		DeviceID:   deviceID,
		MetricType: models.MetricType(req.MetricType),
		Offset:     req.Offset,
		Multiplier: req.Multiplier,
	}

	if err := rs.Bridge.Calibration.UpsertCalibration(deviceID, &calibration); err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusOK)
}

type SessionRequest struct {
	Name string `json:"name"`
}

var sessionRequestSchema = z.Struct(z.Shape{
	"Name": z.String().Required(),
})

func (rs *RestfulServer) StartSession(c *gin.Context) {
	var req SessionRequest
	if err := sessionRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	sessionID, err := rs.Bridge.Session.StartSession(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

func (rs *RestfulServer) EndSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := rs.Bridge.Session.EndSession(sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetSessionReadings(c *gin.Context) {
	sessionID := c.Param("session_id")

	readings, err := rs.Bridge.Session.GetSessionReadings(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, readings)
}

type LimiterRequest struct {
	Key   string  `json:"key"`
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Key":   z.String().Required(),
	"Rate":  z.Float64().Required(),
	"Burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(req.Key, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

type ContextRequest struct {
	Context string `json:"context"`
}

var contextRequestSchema = z.Struct(z.Shape{
	"Context": z.String().Required().OneOf([]string{
		string(bridge.ContextScanning),
		string(bridge.ContextSetup),
		string(bridge.ContextActiveSession),
		string(bridge.ContextMaintenance),
	}),
})

func (rs *RestfulServer) PostContext(c *gin.Context) {
	var req ContextRequest
	if err := contextRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.Notifier.SetContext(bridge.Context(req.Context))

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
