package models

import "time"

type MetricType string

const (
	MetricTypeHeartRate MetricType = "heart_rate"
	MetricTypePower     MetricType = "power"
	MetricTypeCadence   MetricType = "cadence"
	MetricTypeSpeed     MetricType = "speed"
	MetricTypeTrainer   MetricType = "trainer"
)

type Protocol string

const (
	ProtocolANT Protocol = "ant"
	ProtocolBLE Protocol = "ble"
)

type Session struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	StartedAt time.Time
	EndedAt   *time.Time

	Readings []SensorReading `gorm:"foreignKey:SessionID;references:ID"`
}

// SensorReading is the canonical, validated datum. Immutable once created.
type SensorReading struct {
	ID         uint   `gorm:"primaryKey"`
	DeviceID   string `gorm:"index"`
	SessionID  string `gorm:"index"`
	Timestamp  time.Time
	MetricType MetricType `gorm:"type:varchar(20);check:metric_type IN ('heart_rate','power','cadence','speed','trainer')"`
	Value      float64
	Unit       string
	Quality    int
	RawData    map[string]any `gorm:"serializer:json"`
}

// Calibration adjusts readings for one device+metric pair. The offset is
// applied additively before the multiplier: (value + offset) * multiplier.
type Calibration struct {
	DeviceID   string     `gorm:"primaryKey"`
	MetricType MetricType `gorm:"primaryKey;type:varchar(20)"`
	Offset     float64
	Multiplier float64
}

type ConnectionState string

const (
	ConnectionStateDiscovered   ConnectionState = "discovered"
	ConnectionStateConnected    ConnectionState = "connected"
	ConnectionStateDisconnected ConnectionState = "disconnected"
)

// DeviceRecord tracks a known sensor in memory; keyed by DeviceID
// regardless of protocol. Not persisted.
type DeviceRecord struct {
	DeviceID     string
	Name         string
	Protocol     Protocol
	State        ConnectionState
	Signal       int
	LastActivity time.Time
}

// ANTPayload and BLEPayload are the per-protocol raw event shapes,
// validated at the ingestion boundary.

type ANTPayload struct {
	DeviceNumber string
	EventCount   *int
	Page         int
}

type BLEPayload struct {
	Signal         int
	Characteristic string
	Buffer         []byte
}

type NotificationType string

const (
	NotificationTypeSensorData NotificationType = "sensor-data"
	NotificationTypeDiscovery  NotificationType = "discovery"
	NotificationTypeConnection NotificationType = "connection"
	NotificationTypeSession    NotificationType = "session"
	NotificationTypeError      NotificationType = "error"
	NotificationTypeBatch      NotificationType = "batch"
)

// Notification is a candidate outbound event. Discarded after the
// delivery decision; never persisted.
type Notification struct {
	ID         string
	Type       NotificationType
	Priority   int
	DeviceID   string
	DeviceName string
	Message    string
	Context    string
	Payload    map[string]any
	CreatedAt  time.Time
}

// RawSensorEvent is an unvalidated driver payload. Exactly one of ANT/BLE
// is set, matching Protocol.
type RawSensorEvent struct {
	DeviceID   string
	DeviceName string
	MetricType string
	Value      float64
	Timestamp  *time.Time
	Protocol   Protocol
	ANT        *ANTPayload
	BLE        *BLEPayload
}
