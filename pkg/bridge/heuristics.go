package bridge

import (
	"math"
	"strings"

	"github.com/ridelink/sensorbridge/pkg/models"
)

// DeviceHeuristic is an optional quality overlay for specific known
// devices. Setting Validator.Heuristic to nil disables it entirely.
type DeviceHeuristic interface {
	Adjust(deviceID string, metricType models.MetricType, value float64) int
}

// WearableHeuristic covers a handful of consumer wearables whose optical
// heart rate sensors smooth aggressively and occasionally report
// suspiciously round numbers. The constants are empirically tuned.
type WearableHeuristic struct {
	KnownPrefixes []string
	SmoothBonus   int
	RoundPenalty  int
}

func NewWearableHeuristic() *WearableHeuristic {
	return &WearableHeuristic{
		KnownPrefixes: []string{"polar-", "garmin-", "wahoo-"},
		SmoothBonus:   3,
		RoundPenalty:  5,
	}
}

func (h *WearableHeuristic) Adjust(deviceID string, metricType models.MetricType, value float64) int {
	if metricType != models.MetricTypeHeartRate {
		return 0
	}

	matched := false
	for _, prefix := range h.KnownPrefixes {
		if strings.HasPrefix(strings.ToLower(deviceID), prefix) {
			matched = true
			break
		}
	}
	if !matched {
		return 0
	}

	if math.Mod(value, 10) == 0 {
		return -h.RoundPenalty
	}
	return h.SmoothBonus
}
