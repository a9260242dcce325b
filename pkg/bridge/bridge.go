package bridge

import (
	"github.com/ridelink/sensorbridge/pkg/db"
	"github.com/ridelink/sensorbridge/pkg/models"
)

type ISession interface {
	GetActiveSessionID() (string, bool)
	StartSession(name string) (string, error)
	EndSession(sessionID string) error
	RecordReading(reading *models.SensorReading) error
	GetSessionReadings(sessionID string) ([]models.SensorReading, error)
}

type ICalibration interface {
	UpsertCalibration(deviceID string, input *models.Calibration) error
	GetCalibration(deviceID string, metricType models.MetricType) (*models.Calibration, bool)
}

type Bridge struct {
	Db          db.DB
	Session     ISession
	Calibration ICalibration
}

type ServiceOpts struct {
	Session     ISession
	Calibration ICalibration
}

func (b *Bridge) WithServices(opts ServiceOpts) *Bridge {
	if opts.Session != nil {
		b.Session = opts.Session
	}
	if opts.Calibration != nil {
		b.Calibration = opts.Calibration
	}
	return b
}
