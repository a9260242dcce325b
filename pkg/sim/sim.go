// Package sim provides in-process protocol drivers that emit synthetic
// discovery and reading events. Used for local development and the load
// generator; real radios plug in behind the same bridge.Driver port.
package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ridelink/sensorbridge/pkg/bridge"
	"github.com/ridelink/sensorbridge/pkg/models"
)

type simDevice struct {
	id     string
	name   string
	metric models.MetricType
	base   float64
	spread float64
}

// Driver emits one discovery per configured device, then a reading per
// device every Interval while scanning.
type Driver struct {
	Interval time.Duration

	protocol models.Protocol
	devices  []simDevice
	rnd      *rand.Rand

	mu     sync.Mutex
	stop   chan struct{}
	events chan<- bridge.DriverEvent
}

func NewANTDriver(deviceCount int) *Driver {
	return newDriver(models.ProtocolANT, deviceCount)
}

func NewBLEDriver(deviceCount int) *Driver {
	return newDriver(models.ProtocolBLE, deviceCount)
}

var simMetrics = []struct {
	metric models.MetricType
	base   float64
	spread float64
}{
	{models.MetricTypeHeartRate, 140, 15},
	{models.MetricTypePower, 220, 60},
	{models.MetricTypeCadence, 90, 10},
	{models.MetricTypeSpeed, 32, 6},
}

func newDriver(protocol models.Protocol, deviceCount int) *Driver {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	devices := make([]simDevice, deviceCount)
	for i := 0; i < deviceCount; i++ {
		m := simMetrics[i%len(simMetrics)]
		devices[i] = simDevice{
			id:     fmt.Sprintf("%s-sim-%d", protocol, i),
			name:   fmt.Sprintf("Sim %s %d", m.metric, i),
			metric: m.metric,
			base:   m.base,
			spread: m.spread,
		}
	}
	return &Driver{
		Interval: time.Second,
		protocol: protocol,
		devices:  devices,
		rnd:      rnd,
	}
}

func (d *Driver) Protocol() models.Protocol {
	return d.protocol
}

func (d *Driver) StartScan(events chan<- bridge.DriverEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil
	}
	d.stop = make(chan struct{})
	d.events = events

	go d.emit(d.stop)
	return nil
}

func (d *Driver) StopScan() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
}

func (d *Driver) Connect(deviceID string) bool {
	device := d.find(deviceID)
	if device == nil {
		return false
	}
	d.send(bridge.DriverEvent{
		Kind:     bridge.DriverEventConnected,
		Protocol: d.protocol,
		Device:   d.record(device),
	})
	return true
}

func (d *Driver) Disconnect(deviceID string) bool {
	device := d.find(deviceID)
	if device == nil {
		return false
	}
	d.send(bridge.DriverEvent{
		Kind:     bridge.DriverEventDisconnected,
		Protocol: d.protocol,
		Device:   d.record(device),
	})
	return true
}

func (d *Driver) emit(stop chan struct{}) {
	for i := range d.devices {
		d.send(bridge.DriverEvent{
			Kind:     bridge.DriverEventDiscovered,
			Protocol: d.protocol,
			Device:   d.record(&d.devices[i]),
		})
	}

	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()
	eventCount := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			eventCount++
			for i := range d.devices {
				d.send(d.reading(&d.devices[i], eventCount))
			}
		}
	}
}

func (d *Driver) reading(device *simDevice, eventCount int) bridge.DriverEvent {
	now := time.Now()
	value := device.base + (d.rnd.Float64()*2-1)*device.spread

	raw := &models.RawSensorEvent{
		DeviceID:   device.id,
		DeviceName: device.name,
		MetricType: string(device.metric),
		Value:      value,
		Timestamp:  &now,
		Protocol:   d.protocol,
	}
	if d.protocol == models.ProtocolANT {
		count := eventCount
		raw.ANT = &models.ANTPayload{DeviceNumber: device.id, EventCount: &count, Page: 16}
	} else {
		raw.BLE = &models.BLEPayload{
			Signal:         40 + d.rnd.Intn(60),
			Characteristic: "2a37",
			Buffer:         []byte{0x16, byte(int(value))},
		}
	}

	return bridge.DriverEvent{Kind: bridge.DriverEventReading, Protocol: d.protocol, Raw: raw}
}

func (d *Driver) record(device *simDevice) *models.DeviceRecord {
	return &models.DeviceRecord{
		DeviceID: device.id,
		Name:     device.name,
		Protocol: d.protocol,
		Signal:   50 + d.rnd.Intn(50),
	}
}

func (d *Driver) find(deviceID string) *simDevice {
	for i := range d.devices {
		if d.devices[i].id == deviceID {
			return &d.devices[i]
		}
	}
	return nil
}

func (d *Driver) send(event bridge.DriverEvent) {
	d.mu.Lock()
	events := d.events
	d.mu.Unlock()
	if events == nil {
		return
	}
	select {
	case events <- event:
	default:
		// ingestion backlog; sim data is disposable
	}
}
