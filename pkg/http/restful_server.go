package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ridelink/sensorbridge/pkg/bridge"
	"github.com/ridelink/sensorbridge/pkg/hub"
)

type RestfulServer struct {
	Server       *gin.Engine
	Bridge       *bridge.Bridge
	Orchestrator *bridge.Orchestrator
	Notifier     *bridge.Notifier
	Hub          *hub.Hub
}

// CheckCommandLimiter reuses the notifier's admission store to keep HTTP
// control commands from flooding the pipeline.
func (rs *RestfulServer) CheckCommandLimiter(key string) bool {
	if rs.Notifier == nil {
		return true
	}
	return rs.Notifier.Admission.Allow("http-" + key)
}

func (rs *RestfulServer) SetLimiter(key string, keyRate float64, keyBurst int) {
	if rs.Notifier == nil {
		return
	}
	rs.Notifier.Admission.SetLimiter(key, rate.Limit(keyRate), keyBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/ws", rs.ServeWs)

	scan := rs.Server.Group("/scan")
	{
		scan.POST("/start", rs.StartScan)
		scan.POST("/stop", rs.StopScan)
	}

	devices := rs.Server.Group("/devices")
	{
		devices.GET("", rs.ListDevices)
		devices.POST("/:device_id/connect", rs.ConnectDevice)
		devices.POST("/:device_id/disconnect", rs.DisconnectDevice)
		devices.POST("/:device_id/calibration", rs.UpsertCalibration)
	}

	sessions := rs.Server.Group("/sessions")
	{
		sessions.POST("", rs.StartSession)
		sessions.POST("/:session_id/end", rs.EndSession)
		sessions.GET("/:session_id/readings", rs.GetSessionReadings)
	}

	rs.Server.POST("/notifier/limiter", rs.PostLimiter)
	rs.Server.POST("/notifier/context", rs.PostContext)
}
