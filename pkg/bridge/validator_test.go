package bridge_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ridelink/sensorbridge/pkg/bridge"
	"github.com/ridelink/sensorbridge/pkg/bridge/mocks"
	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/models"
	_ "github.com/ridelink/sensorbridge/pkg/testing"
)

func fixedSession(id string) func() (string, bool) {
	return func() (string, bool) { return id, true }
}

func antEvent(deviceID string, metric string, value float64, at time.Time) *models.RawSensorEvent {
	count := 1
	return &models.RawSensorEvent{
		DeviceID:   deviceID,
		MetricType: metric,
		Value:      value,
		Timestamp:  &at,
		Protocol:   models.ProtocolANT,
		ANT:        &models.ANTPayload{DeviceNumber: deviceID, EventCount: &count, Page: 16},
	}
}

func TestValidate_FirstReadingFullQuality(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")

	at := time.Now()
	reading, ok := v.Validate(antEvent("42", "heart_rate", 165, at))
	require.True(t, ok)

	assert.Equal(t, "42", reading.DeviceID)
	assert.Equal(t, "S", reading.SessionID)
	assert.Equal(t, models.MetricTypeHeartRate, reading.MetricType)
	assert.Equal(t, 165.0, reading.Value)
	assert.Equal(t, "bpm", reading.Unit)
	assert.Equal(t, 100, reading.Quality)
}

func TestValidate_Rejections(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	at := time.Now()

	_, ok := v.Validate(antEvent("", "heart_rate", 120, at))
	assert.False(t, ok, "missing device id")

	_, ok = v.Validate(antEvent("42", "", 120, at))
	assert.False(t, ok, "missing metric type")

	_, ok = v.Validate(antEvent("42", "blood_sugar", 120, at))
	assert.False(t, ok, "unknown metric type")

	_, ok = v.Validate(antEvent("42", "heart_rate", 39, at))
	assert.False(t, ok, "heart rate below range")

	_, ok = v.Validate(antEvent("42", "heart_rate", 221, at))
	assert.False(t, ok, "heart rate above range")

	_, ok = v.Validate(antEvent("42", "power", 2001, at))
	assert.False(t, ok, "power above range")

	noSession := bridge.NewValidator()
	noSession.ActiveSession = func() (string, bool) { return "", false }
	_, ok = noSession.Validate(antEvent("42", "heart_rate", 120, at))
	assert.False(t, ok, "no active session")
}

func TestValidate_QualityPenalties(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")

	// no timestamp, no raw payload
	reading, ok := v.Validate(&models.RawSensorEvent{
		DeviceID:   uuid.NewString(),
		MetricType: "power",
		Value:      250,
		Protocol:   models.ProtocolANT,
	})
	require.True(t, ok)
	assert.Equal(t, 85, reading.Quality)
}

func TestValidate_StaleGapPenalty(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	deviceID := uuid.NewString()

	base := time.Now()
	_, ok := v.Validate(antEvent(deviceID, "power", 200, base))
	require.True(t, ok)

	reading, ok := v.Validate(antEvent(deviceID, "power", 210, base.Add(8*time.Second)))
	require.True(t, ok)
	// 8s gap: penalty 16, ANT event-count bonus +5
	assert.Equal(t, 89, reading.Quality)

	reading, ok = v.Validate(antEvent(deviceID, "power", 215, base.Add(60*time.Second)))
	require.True(t, ok)
	// gap penalty capped at 30
	assert.Equal(t, 75, reading.Quality)
}

func TestValidate_ImplausibleJumpPenalty(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	deviceID := uuid.NewString()

	base := time.Now()
	_, ok := v.Validate(antEvent(deviceID, "heart_rate", 100, base))
	require.True(t, ok)

	reading, ok := v.Validate(antEvent(deviceID, "heart_rate", 145, base.Add(time.Second)))
	require.True(t, ok)
	assert.Equal(t, 80, reading.Quality, "jump of 45 bpm exceeds the 40 bpm threshold")

	reading, ok = v.Validate(antEvent(deviceID, "heart_rate", 150, base.Add(2*time.Second)))
	require.True(t, ok)
	assert.Equal(t, 100, reading.Quality, "small change recovers")
}

func TestValidate_ANTAdjustments(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	at := time.Now()

	// event count present but device number absent: +5 -10
	reading, ok := v.Validate(&models.RawSensorEvent{
		DeviceID:   uuid.NewString(),
		MetricType: "cadence",
		Value:      90,
		Timestamp:  &at,
		Protocol:   models.ProtocolANT,
		ANT:        &models.ANTPayload{EventCount: intPtr(7)},
	})
	require.True(t, ok)
	assert.Equal(t, 95, reading.Quality)
}

func TestValidate_BLEAdjustments(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	at := time.Now()

	// weak signal 10: penalty (30-10)/2 = 10; buffer bonus +5
	reading, ok := v.Validate(&models.RawSensorEvent{
		DeviceID:   uuid.NewString(),
		MetricType: "speed",
		Value:      32.125,
		Timestamp:  &at,
		Protocol:   models.ProtocolBLE,
		BLE:        &models.BLEPayload{Signal: 10, Characteristic: "2a5b", Buffer: []byte{0x01}},
	})
	require.True(t, ok)
	assert.Equal(t, 95, reading.Quality)
	assert.Equal(t, 32.13, reading.Value, "speed rounds to 2 decimals")
	assert.Equal(t, "km/h", reading.Unit)
}

func TestValidate_QualityAlwaysInRange(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	deviceID := uuid.NewString()

	// stack every penalty: no timestamp, stale gap, jump, BLE dead signal
	base := time.Now()
	_, ok := v.Validate(antEvent(deviceID, "speed", 10, base.Add(-100*time.Second)))
	require.True(t, ok)

	reading, ok := v.Validate(&models.RawSensorEvent{
		DeviceID:   deviceID,
		MetricType: "speed",
		Value:      90,
		Protocol:   models.ProtocolBLE,
		BLE:        &models.BLEPayload{Signal: 0},
	})
	require.True(t, ok)
	assert.GreaterOrEqual(t, reading.Quality, 0)
	assert.LessOrEqual(t, reading.Quality, 100)
}

func TestValidate_CalibrationOrder(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	mockCal := mocks.NewMockICalibration(ctrl)
	mockCal.
		EXPECT().
		GetCalibration(gomock.Eq(deviceID), gomock.Eq(models.MetricTypePower)).
		Return(&models.Calibration{
			DeviceID:   deviceID,
			MetricType: models.MetricTypePower,
			Offset:     10,
			Multiplier: 2,
		}, true)

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	v.Calibration = mockCal

	reading, ok := v.Validate(antEvent(deviceID, "power", 100, time.Now()))
	require.True(t, ok)
	// offset applied before multiplier: (100 + 10) * 2
	assert.Equal(t, 220.0, reading.Value)
}

func TestValidate_CalibrationCanPushOutOfRange(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	mockCal := mocks.NewMockICalibration(ctrl)
	mockCal.
		EXPECT().
		GetCalibration(gomock.Any(), gomock.Any()).
		Return(&models.Calibration{Offset: 0, Multiplier: 20}, true)

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	v.Calibration = mockCal

	_, ok := v.Validate(antEvent(deviceID, "power", 150, time.Now()))
	assert.False(t, ok, "calibrated value 3000 W is out of range")
}

func TestValidate_SanitizedPayload(t *testing.T) {
	common.SetTestLoggerNop()

	v := bridge.NewValidator()
	v.ActiveSession = fixedSession("S")
	at := time.Now()

	reading, ok := v.Validate(antEvent("42", "heart_rate", 150, at))
	require.True(t, ok)
	assert.Equal(t, "ant", reading.RawData["protocol"])
	assert.Equal(t, "42", reading.RawData["deviceNumber"])
	assert.Equal(t, 1, reading.RawData["eventCount"])

	reading, ok = v.Validate(&models.RawSensorEvent{
		DeviceID:   "43",
		MetricType: "heart_rate",
		Value:      150,
		Timestamp:  &at,
		Protocol:   models.ProtocolBLE,
		BLE:        &models.BLEPayload{Signal: 80, Characteristic: "2a37", Buffer: []byte{0xab, 0xcd}},
	})
	require.True(t, ok)
	assert.Equal(t, "ble", reading.RawData["protocol"])
	assert.Equal(t, "abcd", reading.RawData["buffer"])
	assert.NotContains(t, reading.RawData, "deviceNumber")
}

func TestWearableHeuristic(t *testing.T) {
	h := bridge.NewWearableHeuristic()

	assert.Equal(t, 0, h.Adjust("unknown-123", models.MetricTypeHeartRate, 150))
	assert.Equal(t, 0, h.Adjust("polar-h10", models.MetricTypePower, 250))
	assert.Equal(t, 3, h.Adjust("polar-h10", models.MetricTypeHeartRate, 151))
	assert.Equal(t, -5, h.Adjust("garmin-hrm", models.MetricTypeHeartRate, 150))
}

func intPtr(v int) *int { return &v }
