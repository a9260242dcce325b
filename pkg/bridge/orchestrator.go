package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/models"
)

const (
	priorityConnectionError = 8
	priorityConnected       = 7
	priorityDisconnected    = 6
	prioritySensorData      = 6

	// default name for the auto-started session when readings arrive
	// with no session active
	defaultSessionName = "Quick Session"

	ingestBuffer = 256
)

// ScanStatusSink is notified whenever the scan state flips.
type ScanStatusSink interface {
	ScanStatus(scanning bool)
}

// Orchestrator bridges protocol drivers to the validator, the session
// store and the notifier. All driver events funnel through one ingestion
// channel; the device maps are only touched from the run loop and the
// public methods under o.mu.
type Orchestrator struct {
	StatusSink ScanStatusSink

	bridge    *Bridge
	validator *Validator
	notifier  *Notifier
	drivers   []Driver

	events chan DriverEvent
	done   chan struct{}

	mu         sync.Mutex
	discovered map[string]*models.DeviceRecord
	connected  map[string]*models.DeviceRecord
	scanning   bool
	scanTimer  *time.Timer
}

func NewOrchestrator(b *Bridge, v *Validator, n *Notifier, drivers ...Driver) *Orchestrator {
	o := &Orchestrator{
		bridge:     b,
		validator:  v,
		notifier:   n,
		drivers:    drivers,
		events:     make(chan DriverEvent, ingestBuffer),
		done:       make(chan struct{}),
		discovered: make(map[string]*models.DeviceRecord),
		connected:  make(map[string]*models.DeviceRecord),
	}

	if v.ActiveSession == nil {
		v.ActiveSession = o.resolveSession
	}

	go o.run()
	return o
}

// resolveSession returns the active session id, auto-starting one with a
// default name if none is active. Intentional policy, not a fallback hack.
func (o *Orchestrator) resolveSession() (string, bool) {
	if o.bridge == nil || o.bridge.Session == nil {
		return "", false
	}
	if id, ok := o.bridge.Session.GetActiveSessionID(); ok {
		return id, true
	}
	id, err := o.bridge.Session.StartSession(defaultSessionName)
	if err != nil {
		return "", false
	}
	return id, true
}

// StartScan starts every driver; a failure on one protocol is surfaced as
// an error notification and does not stop the others. Idempotent while
// already scanning. Returns false only when no driver started.
func (o *Orchestrator) StartScan(timeout time.Duration) bool {
	logger := o.logger()

	o.mu.Lock()
	if o.scanning {
		o.mu.Unlock()
		return true
	}

	started := 0
	for _, d := range o.drivers {
		if err := d.StartScan(o.events); err != nil {
			logger.Warn("Driver failed to start scanning",
				zap.String("protocol", string(d.Protocol())), zap.Error(err))
			o.submitLater(&models.Notification{
				ID:        uuid.NewString(),
				Type:      models.NotificationTypeError,
				Priority:  priorityConnectionError,
				Message:   fmt.Sprintf("%s scanning unavailable: %v", d.Protocol(), err),
				Payload:   map[string]any{"protocol": string(d.Protocol())},
				CreatedAt: time.Now(),
			})
			continue
		}
		started++
	}

	if started == 0 {
		o.mu.Unlock()
		return false
	}

	o.scanning = true
	if timeout > 0 {
		o.scanTimer = time.AfterFunc(timeout, o.scanTimedOut)
	}
	o.mu.Unlock()

	logger.Info("Scanning started", zap.Int("drivers", started))
	if o.StatusSink != nil {
		o.StatusSink.ScanStatus(true)
	}
	return true
}

// StopScan always detaches all drivers.
func (o *Orchestrator) StopScan() {
	o.mu.Lock()
	wasScanning := o.scanning
	o.scanning = false
	if o.scanTimer != nil {
		o.scanTimer.Stop()
		o.scanTimer = nil
	}
	o.mu.Unlock()

	for _, d := range o.drivers {
		d.StopScan()
	}

	if wasScanning {
		o.logger().Info("Scanning stopped")
		if o.StatusSink != nil {
			o.StatusSink.ScanStatus(false)
		}
	}
}

func (o *Orchestrator) Scanning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scanning
}

func (o *Orchestrator) scanTimedOut() {
	o.StopScan()
	o.notifier.Submit(&models.Notification{
		ID:        uuid.NewString(),
		Type:      models.NotificationTypeSession,
		Priority:  5,
		Message:   "Scan timed out",
		CreatedAt: time.Now(),
	})
}

// Connect asks the owning protocol driver to connect a discovered device.
// Unknown device ids return false, they are not an error.
func (o *Orchestrator) Connect(deviceID string) bool {
	o.mu.Lock()
	device, known := o.discovered[deviceID]
	o.mu.Unlock()
	if !known {
		return false
	}
	if d := o.driverFor(device.Protocol); d != nil {
		return d.Connect(deviceID)
	}
	return false
}

func (o *Orchestrator) Disconnect(deviceID string) bool {
	o.mu.Lock()
	device, known := o.connected[deviceID]
	o.mu.Unlock()
	if !known {
		return false
	}
	if d := o.driverFor(device.Protocol); d != nil {
		return d.Disconnect(deviceID)
	}
	return false
}

// Devices returns a snapshot of everything discovered so far.
func (o *Orchestrator) Devices() []models.DeviceRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	devices := make([]models.DeviceRecord, 0, len(o.discovered))
	for _, device := range o.discovered {
		devices = append(devices, *device)
	}
	return devices
}

// Close stops scanning and the ingestion loop. Device maps are cleared;
// all orchestrator state is ephemeral.
func (o *Orchestrator) Close() {
	o.StopScan()
	close(o.done)

	o.mu.Lock()
	o.discovered = make(map[string]*models.DeviceRecord)
	o.connected = make(map[string]*models.DeviceRecord)
	o.mu.Unlock()
}

func (o *Orchestrator) driverFor(protocol models.Protocol) Driver {
	for _, d := range o.drivers {
		if d.Protocol() == protocol {
			return d
		}
	}
	return nil
}

func (o *Orchestrator) logger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameBridgeCore,
		zap.String(common.LoggerFieldBridgeCategory, common.LoggerCategoryBridgeOrch),
	)
}

// submitLater hands a notification to the notifier without holding o.mu.
func (o *Orchestrator) submitLater(n *models.Notification) {
	go o.notifier.Submit(n)
}

func (o *Orchestrator) run() {
	for {
		select {
		case <-o.done:
			return
		case event := <-o.events:
			o.handleEvent(event)
		}
	}
}

func (o *Orchestrator) handleEvent(event DriverEvent) {
	switch event.Kind {
	case DriverEventDiscovered:
		o.handleDiscovered(event)
	case DriverEventConnected:
		o.handleConnected(event)
	case DriverEventDisconnected:
		o.handleDisconnected(event)
	case DriverEventReading:
		o.handleReading(event)
	case DriverEventError:
		o.notifier.Submit(&models.Notification{
			ID:        uuid.NewString(),
			Type:      models.NotificationTypeError,
			Priority:  priorityConnectionError,
			Message:   fmt.Sprintf("%s driver error: %v", event.Protocol, event.Err),
			Payload:   map[string]any{"protocol": string(event.Protocol)},
			CreatedAt: time.Now(),
		})
	}
}

func (o *Orchestrator) handleDiscovered(event DriverEvent) {
	device := event.Device
	if device == nil || device.DeviceID == "" {
		return
	}

	o.mu.Lock()
	if known, seen := o.discovered[device.DeviceID]; seen {
		// duplicate discovery is a no-op, not a duplicate event
		known.LastActivity = time.Now()
		o.mu.Unlock()
		return
	}
	record := *device
	record.State = models.ConnectionStateDiscovered
	record.LastActivity = time.Now()
	o.discovered[device.DeviceID] = &record
	o.mu.Unlock()

	o.notifier.Submit(&models.Notification{
		ID:         uuid.NewString(),
		Type:       models.NotificationTypeDiscovery,
		Priority:   discoveryPriority(record.Signal),
		DeviceID:   record.DeviceID,
		DeviceName: record.Name,
		Message:    fmt.Sprintf("Discovered %s", deviceLabel(&record)),
		Payload: map[string]any{
			"protocol": string(record.Protocol),
			"signal":   record.Signal,
		},
		CreatedAt: time.Now(),
	})
}

func (o *Orchestrator) handleConnected(event DriverEvent) {
	device := event.Device
	if device == nil {
		return
	}

	o.mu.Lock()
	record, known := o.discovered[device.DeviceID]
	if !known {
		copied := *device
		record = &copied
		o.discovered[device.DeviceID] = record
	}
	record.State = models.ConnectionStateConnected
	record.LastActivity = time.Now()
	o.connected[device.DeviceID] = record
	o.mu.Unlock()

	o.notifier.Submit(&models.Notification{
		ID:         uuid.NewString(),
		Type:       models.NotificationTypeConnection,
		Priority:   priorityConnected,
		DeviceID:   record.DeviceID,
		DeviceName: record.Name,
		Message:    fmt.Sprintf("Connected to %s", deviceLabel(record)),
		Payload:    map[string]any{"status": "connected"},
		CreatedAt:  time.Now(),
	})
}

func (o *Orchestrator) handleDisconnected(event DriverEvent) {
	device := event.Device
	if device == nil {
		return
	}

	o.mu.Lock()
	record, known := o.connected[device.DeviceID]
	if !known {
		o.mu.Unlock()
		return
	}
	record.State = models.ConnectionStateDisconnected
	record.LastActivity = time.Now()
	delete(o.connected, device.DeviceID)
	o.mu.Unlock()

	o.notifier.Submit(&models.Notification{
		ID:         uuid.NewString(),
		Type:       models.NotificationTypeConnection,
		Priority:   priorityDisconnected,
		DeviceID:   record.DeviceID,
		DeviceName: record.Name,
		Message:    fmt.Sprintf("Disconnected from %s", deviceLabel(record)),
		Payload:    map[string]any{"status": "disconnected"},
		CreatedAt:  time.Now(),
	})
}

func (o *Orchestrator) handleReading(event DriverEvent) {
	raw := event.Raw
	if raw == nil {
		return
	}

	reading, ok := o.validator.Validate(raw)
	if !ok {
		return
	}

	if o.bridge != nil && o.bridge.Session != nil {
		if err := o.bridge.Session.RecordReading(reading); err != nil {
			o.logger().Warn("Failed to record reading",
				zap.String("device_id", reading.DeviceID), zap.Error(err))
		}
	}

	o.mu.Lock()
	if record, known := o.connected[reading.DeviceID]; known {
		record.LastActivity = time.Now()
	}
	o.mu.Unlock()

	o.notifier.Submit(&models.Notification{
		ID:       uuid.NewString(),
		Type:     models.NotificationTypeSensorData,
		Priority: prioritySensorData,
		DeviceID: reading.DeviceID,
		Message:  fmt.Sprintf("%s %.2f %s", reading.MetricType, reading.Value, reading.Unit),
		Payload: map[string]any{
			"deviceId":   reading.DeviceID,
			"metricType": string(reading.MetricType),
			"value":      reading.Value,
			"unit":       reading.Unit,
			"timestamp":  reading.Timestamp,
			"quality":    reading.Quality,
			"rawData":    reading.RawData,
		},
		CreatedAt: time.Now(),
	})
}

func discoveryPriority(signal int) int {
	switch {
	case signal >= 70:
		return 5
	case signal >= 40:
		return 4
	default:
		return 3
	}
}

func deviceLabel(device *models.DeviceRecord) string {
	if device.Name != "" {
		return device.Name
	}
	return device.DeviceID
}
