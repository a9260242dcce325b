package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ridelink/sensorbridge/pkg/bridge"
	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/db"
	bridgeHttp "github.com/ridelink/sensorbridge/pkg/http"
	"github.com/ridelink/sensorbridge/pkg/hub"
	"github.com/ridelink/sensorbridge/pkg/sim"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	bridgeDbType := os.Getenv(common.EnvKeyBridgeDBType)
	switch bridgeDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown BRIDGE_DB_TYPE: " + bridgeDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyBridgeHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyBridgeDefaultRate), 64); err != nil {
		log.Fatal("Invalid BRIDGE_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyBridgeDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid BRIDGE_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	bridgeCore := bridge.Bridge{
		Db: *dbInstance,
	}
	bridgeCore.WithServices(bridge.ServiceOpts{
		Session:     bridgeCore.GetISession(),
		Calibration: bridgeCore.GetICalibration(),
	})

	wsHub := hub.NewHub()
	go wsHub.Run()

	notifier := bridge.NewNotifier(wsHub, bridge.NotifierOpts{
		MaxTokens:  int(defaultBurst),
		RefillRate: int(defaultRate * 60),
		Window:     time.Minute,
	})

	validator := bridge.NewValidator()
	validator.Calibration = bridgeCore.Calibration
	validator.Heuristic = bridge.NewWearableHeuristic()

	var drivers []bridge.Driver
	if os.Getenv(common.EnvKeyBridgeSimDrivers) == "true" {
		drivers = append(drivers, sim.NewANTDriver(2), sim.NewBLEDriver(2))
		logger.Info("Simulated drivers enabled")
	}

	orchestrator := bridge.NewOrchestrator(&bridgeCore, validator, notifier, drivers...)
	orchestrator.StatusSink = wsHub

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &bridgeHttp.RestfulServer{
		Server:       gin.Default(),
		Bridge:       &bridgeCore,
		Orchestrator: orchestrator,
		Notifier:     notifier,
		Hub:          wsHub,
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down")
		orchestrator.Close()
		notifier.Close()
		wsHub.Shutdown(2 * time.Second)
		os.Exit(0)
	}()

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
