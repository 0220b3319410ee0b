package hub

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"homesense/pkg/models"
)

// MaxRecentLimit bounds listRecent responses regardless of what the
// client asked for.
const MaxRecentLimit = 100

func (h *Hub) listRecent(limit int) ([]models.Reading, error) {
	if limit <= 0 || limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	var readings []models.Reading
	err := h.Db.Conn.
		Order("timestamp desc, id desc").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return readings, nil
}

// latestPerRoom selects the most recent reading within each room ever
// observed, ties broken by surrogate id. Served by the
// (room, timestamp) index.
func (h *Hub) latestPerRoom() ([]models.Reading, error) {
	var readings []models.Reading
	err := h.Db.Conn.Raw(`
		WITH ranked_readings AS (
			SELECT *,
				ROW_NUMBER() OVER (PARTITION BY room ORDER BY timestamp DESC, id DESC) AS rn
			FROM sensor_readings
		)
		SELECT id, device_id, room, temperature, humidity,
			air_quality, air_status, light_level, timestamp, created_at
		FROM ranked_readings
		WHERE rn = 1
		ORDER BY room
	`).Scan(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return readings, nil
}

func (h *Hub) statsByRoom() ([]models.RoomStatistics, error) {
	var stats []models.RoomStatistics
	err := h.Db.Conn.Raw(`
		SELECT
			room,
			COUNT(*) AS total_readings,
			ROUND(AVG(temperature), 2) AS avg_temp,
			ROUND(AVG(humidity), 2) AS avg_humidity,
			ROUND(AVG(air_quality), 2) AS avg_air_quality,
			SUM(CASE WHEN temperature > ? OR temperature < ? THEN 1 ELSE 0 END) AS temp_alerts,
			SUM(CASE WHEN air_status = ? THEN 1 ELSE 0 END) AS air_alerts
		FROM sensor_readings
		GROUP BY room
		ORDER BY room
	`, TempHighThreshold, TempLowThreshold, models.AirStatusPoor).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return stats, nil
}

func (h *Hub) latestReading() (*models.Reading, error) {
	var reading models.Reading
	err := h.Db.Conn.
		Order("timestamp desc, id desc").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &reading, nil
}

func (h *Hub) totals() (int64, int64, error) {
	var readings, alerts int64
	if err := h.Db.Conn.Model(&models.Reading{}).Count(&readings).Error; err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := h.Db.Conn.Model(&models.Alert{}).Count(&alerts).Error; err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return readings, alerts, nil
}

type IQueryImpl struct {
	hub *Hub
}

func (iq *IQueryImpl) ListRecent(limit int) ([]models.Reading, error) {
	return iq.hub.listRecent(limit)
}

func (iq *IQueryImpl) LatestPerRoom() ([]models.Reading, error) {
	return iq.hub.latestPerRoom()
}

func (iq *IQueryImpl) LatestReading() (*models.Reading, error) {
	return iq.hub.latestReading()
}

func (iq *IQueryImpl) Totals() (int64, int64, error) {
	return iq.hub.totals()
}

type IStatsImpl struct {
	hub *Hub
}

func (is *IStatsImpl) StatsByRoom() ([]models.RoomStatistics, error) {
	return is.hub.statsByRoom()
}

func (h *Hub) GetIQuery() IQuery {
	return &IQueryImpl{hub: h}
}

func (h *Hub) GetIStats() IStats {
	return &IStatsImpl{hub: h}
}
