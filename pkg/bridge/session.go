package bridge

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/models"
)

func (b *Bridge) getActiveSessionID() (string, bool) {
	var session models.Session
	err := b.Db.Conn.
		Where("ended_at IS NULL").
		Order("started_at desc").
		First(&session).Error
	if err != nil {
		return "", false
	}
	return session.ID, true
}

func (b *Bridge) startSession(name string) (string, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameBridgeCore,
		zap.String(common.LoggerFieldBridgeCategory, common.LoggerCategoryBridgeSession),
	)

	session := models.Session{
		ID:        uuid.NewString(),
		Name:      name,
		StartedAt: time.Now(),
	}

	if err := b.Db.Conn.Create(&session).Error; err != nil {
		return "", err
	}

	logger.Info("Started session", zap.Reflect("session", session))
	return session.ID, nil
}

func (b *Bridge) endSession(sessionID string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameBridgeCore,
		zap.String(common.LoggerFieldBridgeCategory, common.LoggerCategoryBridgeSession),
	)

	now := time.Now()
	result := b.Db.Conn.
		Model(&models.Session{}).
		Where("id = ? AND ended_at IS NULL", sessionID).
		Update("ended_at", now)
	if result.Error != nil {
		return result.Error
	}

	logger.Info("Ended session", zap.String("session_id", sessionID))
	return nil
}

func (b *Bridge) recordReading(reading *models.SensorReading) error {
	logger := common.GetLoggerWith(
		common.LoggerNameBridgeCore,
		zap.String(common.LoggerFieldBridgeCategory, common.LoggerCategoryBridgeSession),
	)

	if err := b.Db.Conn.Create(reading).Error; err != nil {
		return err
	}

	logger.Info("Recorded reading", zap.Reflect("reading", reading))
	return nil
}

func (b *Bridge) getSessionReadings(sessionID string) ([]models.SensorReading, error) {
	var readings []models.SensorReading
	err := b.Db.Conn.
		Where("session_id = ?", sessionID).
		Order("timestamp asc").
		Find(&readings).Error
	return readings, err
}

type ISessionImpl struct {
	bridge *Bridge
}

func (is *ISessionImpl) GetActiveSessionID() (string, bool) {
	return is.bridge.getActiveSessionID()
}

func (is *ISessionImpl) StartSession(name string) (string, error) {
	return is.bridge.startSession(name)
}

func (is *ISessionImpl) EndSession(sessionID string) error {
	return is.bridge.endSession(sessionID)
}

func (is *ISessionImpl) RecordReading(reading *models.SensorReading) error {
	return is.bridge.recordReading(reading)
}

func (is *ISessionImpl) GetSessionReadings(sessionID string) ([]models.SensorReading, error) {
	return is.bridge.getSessionReadings(sessionID)
}

func (b *Bridge) GetISession() ISession {
	return &ISessionImpl{bridge: b}
}
