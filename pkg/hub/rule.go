package hub

import (
	"fmt"

	"homesense/pkg/models"
)

const (
	TempHighThreshold   = 28.0
	TempLowThreshold    = 18.0
	AirQualityThreshold = 150.0
)

// Rule maps one reading to at most one alert. Rules are independent
// of each other; evaluation order equals declaration order, which
// fixes the storage order of alerts for the same reading.
type Rule struct {
	Type  models.AlertType
	Check func(r *models.Reading) *models.Alert
}

var defaultRules = []Rule{
	{
		Type: models.AlertTypeHighTemperature,
		Check: func(r *models.Reading) *models.Alert {
			if r.Temperature <= TempHighThreshold {
				return nil
			}
			return &models.Alert{
				Type:      models.AlertTypeHighTemperature,
				Value:     r.Temperature,
				Threshold: TempHighThreshold,
				Message:   fmt.Sprintf("High temperature detected: %.1f°C", r.Temperature),
			}
		},
	},
	{
		Type: models.AlertTypeLowTemperature,
		Check: func(r *models.Reading) *models.Alert {
			if r.Temperature >= TempLowThreshold {
				return nil
			}
			return &models.Alert{
				Type:      models.AlertTypeLowTemperature,
				Value:     r.Temperature,
				Threshold: TempLowThreshold,
				Message:   fmt.Sprintf("Low temperature detected: %.1f°C", r.Temperature),
			}
		},
	},
	{
		Type: models.AlertTypePoorAirQuality,
		Check: func(r *models.Reading) *models.Alert {
			if r.AirQuality <= AirQualityThreshold {
				return nil
			}
			return &models.Alert{
				Type:      models.AlertTypePoorAirQuality,
				Value:     r.AirQuality,
				Threshold: AirQualityThreshold,
				Message:   fmt.Sprintf("Poor air quality: AQI %.1f", r.AirQuality),
			}
		},
	},
}

// EvaluateRules runs every rule against the reading. Pure: no I/O, no
// shared state. Device id and event time are copied onto each alert.
func EvaluateRules(reading *models.Reading) []models.Alert {
	return evaluate(defaultRules, reading)
}

func evaluate(rules []Rule, reading *models.Reading) []models.Alert {
	var alerts []models.Alert
	for _, rule := range rules {
		if alert := rule.Check(reading); alert != nil {
			alert.DeviceID = reading.DeviceID
			alert.Timestamp = reading.Timestamp
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}
