package models

import "time"

type AlertType string

const (
	AlertTypeHighTemperature AlertType = "HIGH_TEMPERATURE"
	AlertTypeLowTemperature  AlertType = "LOW_TEMPERATURE"
	AlertTypePoorAirQuality  AlertType = "POOR_AIR_QUALITY"
)

const (
	AirStatusGood string = "GOOD"
	AirStatusPoor string = "POOR"
)

// Level labels derived at query time, never stored.
const (
	LevelStatusHigh   string = "HIGH"
	LevelStatusLow    string = "LOW"
	LevelStatusNormal string = "NORMAL"
)

// Reading is one combined observation from one device. Rows are
// append-only; ID is assigned by the store on insert.
type Reading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DeviceID    string    `gorm:"index" json:"device_id"`
	Room        string    `gorm:"index:idx_room_timestamp,priority:1" json:"room"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	AirQuality  float64   `json:"air_quality"`
	AirStatus   string    `json:"air_status"`
	LightLevel  float64   `json:"light_level"`
	Timestamp   time.Time `gorm:"index:idx_room_timestamp,priority:2;index:idx_timestamp" json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Reading) TableName() string {
	return "sensor_readings"
}

// Alert records one rule violation derived from exactly one Reading.
// Timestamp is copied from the triggering reading, CreatedAt is the
// row-creation time.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeviceID  string    `gorm:"index" json:"device_id"`
	Type      AlertType `gorm:"column:alert_type;type:varchar(32)" json:"alert_type"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

func (Alert) TableName() string {
	return "alerts"
}

// RoomStatistics is a derived per-room aggregate over the full
// retained history. Averages are rounded to 2 decimals by the query.
type RoomStatistics struct {
	Room          string  `json:"room"`
	TotalReadings int64   `json:"total_readings"`
	AvgTemp       float64 `json:"avg_temp"`
	AvgHumidity   float64 `json:"avg_humidity"`
	AvgAirQuality float64 `json:"avg_air_quality"`
	TempAlerts    int64   `json:"temp_alerts"`
	AirAlerts     int64   `json:"air_alerts"`
}

// RoomSnapshot is the latest reading of one room joined with the
// read-side status classification.
type RoomSnapshot struct {
	DeviceID       string    `json:"device_id"`
	Room           string    `json:"room"`
	Temperature    float64   `json:"temperature"`
	Humidity       float64   `json:"humidity"`
	AirQuality     float64   `json:"air_quality"`
	AirStatus      string    `json:"air_status"`
	LightLevel     float64   `json:"light_level"`
	Timestamp      time.Time `json:"timestamp"`
	TempStatus     string    `json:"temp_status"`
	HumidityStatus string    `json:"humidity_status"`
}
