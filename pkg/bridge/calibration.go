package bridge

import (
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/models"
)

func (b *Bridge) upsertCalibration(deviceID string, input *models.Calibration) error {
	logger := common.GetLoggerWith(
		common.LoggerNameBridgeCore,
		zap.String(common.LoggerFieldBridgeCategory, common.LoggerCategoryBridgeCalibrate),
	)

	calibration := models.Calibration{
		DeviceID:   deviceID,
		MetricType: input.MetricType,
		Offset:     input.Offset,
		Multiplier: input.Multiplier,
	}

	logger.Info("Received calibration for device", zap.Reflect("calibration", calibration))

	err := b.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "metric_type"}},
		UpdateAll: true,
	}).Create(&calibration).Error

	if err == nil {
		logger.Info("Upserted calibration for device", zap.Reflect("calibration", calibration))
	}

	return err
}

func (b *Bridge) getCalibration(deviceID string, metricType models.MetricType) (*models.Calibration, bool) {
	var calibration models.Calibration
	err := b.Db.Conn.First(&calibration, "device_id = ? AND metric_type = ?", deviceID, metricType).Error
	if err != nil {
		return nil, false
	}
	return &calibration, true
}

type ICalibrationImpl struct {
	bridge *Bridge
}

func (ic *ICalibrationImpl) UpsertCalibration(deviceID string, input *models.Calibration) error {
	return ic.bridge.upsertCalibration(deviceID, input)
}

func (ic *ICalibrationImpl) GetCalibration(deviceID string, metricType models.MetricType) (*models.Calibration, bool) {
	return ic.bridge.getCalibration(deviceID, metricType)
}

func (b *Bridge) GetICalibration() ICalibration {
	return &ICalibrationImpl{bridge: b}
}
