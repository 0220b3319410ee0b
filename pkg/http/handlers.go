package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"homesense/pkg/common"
	"homesense/pkg/hub"
	"homesense/pkg/models"
)

func queryLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameRestfulServer,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryQuery),
	)
}

const DefaultReadingsLimit = 50

type ReadingsQuery struct {
	Limit int
}

var readingsQuerySchema = z.Struct(z.Shape{
	"limit": z.Int().Default(DefaultReadingsLimit).GTE(1),
})

// ReadingRecord is one history row as the dashboard consumes it: the
// stored fields plus the read-side temperature classification.
type ReadingRecord struct {
	DeviceID    string    `json:"device_id"`
	Room        string    `json:"room"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	AirQuality  float64   `json:"air_quality"`
	AirStatus   string    `json:"air_status"`
	LightLevel  float64   `json:"light_level"`
	Timestamp   time.Time `json:"timestamp"`
	TempStatus  string    `json:"temp_status"`
}

func statusForTemperature(temperature float64) string {
	switch {
	case temperature > hub.TempHighThreshold:
		return models.LevelStatusHigh
	case temperature < hub.TempLowThreshold:
		return models.LevelStatusLow
	default:
		return models.LevelStatusNormal
	}
}

func statusForHumidity(humidity float64) string {
	switch {
	case humidity > 60:
		return models.LevelStatusHigh
	case humidity < 30:
		return models.LevelStatusLow
	default:
		return models.LevelStatusNormal
	}
}

func (rs *RestfulServer) GetReadings(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var query ReadingsQuery
	if err := readingsQuerySchema.Parse(zhttp.Request(c.Request), &query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	readings, err := rs.Hub.Query.ListRecent(query.Limit)
	if err != nil {
		queryLogger().Error("Failed to list recent readings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, common.Mapper(readings, func(r models.Reading) ReadingRecord {
		return ReadingRecord{
			DeviceID:    r.DeviceID,
			Room:        r.Room,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			AirQuality:  r.AirQuality,
			AirStatus:   r.AirStatus,
			LightLevel:  r.LightLevel,
			Timestamp:   r.Timestamp,
			TempStatus:  statusForTemperature(r.Temperature),
		}
	}))
}

func (rs *RestfulServer) GetLatest(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	readings, err := rs.Hub.Query.LatestPerRoom()
	if err != nil {
		queryLogger().Error("Failed to read room snapshots", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, common.Mapper(readings, func(r models.Reading) models.RoomSnapshot {
		return models.RoomSnapshot{
			DeviceID:       r.DeviceID,
			Room:           r.Room,
			Temperature:    r.Temperature,
			Humidity:       r.Humidity,
			AirQuality:     r.AirQuality,
			AirStatus:      r.AirStatus,
			LightLevel:     r.LightLevel,
			Timestamp:      r.Timestamp,
			TempStatus:     statusForTemperature(r.Temperature),
			HumidityStatus: statusForHumidity(r.Humidity),
		}
	}))
}

func (rs *RestfulServer) GetStats(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	stats, err := rs.StatsCache.Get()
	if err != nil {
		queryLogger().Error("Failed to compute statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
