package hub

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"homesense/pkg/common"
	"homesense/pkg/metrics"
	"homesense/pkg/models"
)

// storeReading evaluates the alert rules and persists the reading
// together with any produced alerts in one transaction. Either all
// rows become visible or none do.
func (h *Hub) storeReading(reading *models.Reading) error {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryIngest),
	)

	alerts := EvaluateRules(reading)

	logger.Info("Received reading for device", zap.Reflect("reading", reading))

	err := h.Db.Conn.Transaction(func(tx *gorm.DB) error {
		for i := range alerts {
			if err := tx.Create(&alerts[i]).Error; err != nil {
				return err
			}
		}
		return tx.Create(reading).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	alertLogger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryAlert),
	)
	for i := range alerts {
		alertLogger.Warn("Alert saved", zap.Reflect("alert", alerts[i]))
	}

	metrics.ReadingsStored.Inc()
	metrics.AlertsGenerated.Add(float64(len(alerts)))

	logger.Info("Reading saved", zap.Reflect("reading", reading))
	return nil
}

type IIngestImpl struct {
	hub *Hub
}

func (ii *IIngestImpl) StoreReading(reading *models.Reading) error {
	return ii.hub.storeReading(reading)
}

func (h *Hub) GetIIngest() IIngest {
	return &IIngestImpl{hub: h}
}
