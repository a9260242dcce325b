package bridge

import (
	"github.com/ridelink/sensorbridge/pkg/models"
)

type DriverEventKind int

const (
	DriverEventDiscovered DriverEventKind = iota
	DriverEventConnected
	DriverEventDisconnected
	DriverEventReading
	DriverEventError
)

// DriverEvent is the uniform event shape every protocol adapter emits.
// The orchestrator never sees a driver-specific type.
type DriverEvent struct {
	Kind     DriverEventKind
	Protocol models.Protocol
	Device   *models.DeviceRecord
	Raw      *models.RawSensorEvent
	Err      error
}

// Driver is the port a protocol adapter (ANT+ stick, BLE central)
// implements. StartScan attaches the shared ingestion channel; events on
// it must be emitted from a single goroutine per driver so per-device
// ordering holds.
type Driver interface {
	Protocol() models.Protocol
	StartScan(events chan<- DriverEvent) error
	StopScan()
	Connect(deviceID string) bool
	Disconnect(deviceID string) bool
}
