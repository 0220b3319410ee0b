package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"

	"homesense/pkg/models"
)

var (
	// ErrMalformed marks payloads that cannot be decoded or fail shape
	// validation. Logged and dropped, never retried.
	ErrMalformed = errors.New("malformed payload")

	// ErrPartialPayload marks per-metric payloads (no "room" key).
	// They are redundant with the combined payload and skipped without
	// being treated as a failure.
	ErrPartialPayload = errors.New("partial payload without room")
)

// Neutral fallbacks for absent fields, chosen inside the alert-free
// ranges so a sparse payload never fires a spurious alert.
const (
	NeutralTemperature = 25.0
	NeutralAirQuality  = 0.0
)

type combinedPayload struct {
	DeviceID    string  `json:"device_id"`
	Room        string  `json:"room"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	AirQuality  float64 `json:"air_quality"`
	AirStatus   string  `json:"air_status"`
	LightLevel  float64 `json:"light_level"`
	Timestamp   string  `json:"timestamp"`
}

var combinedPayloadSchema = z.Struct(z.Shape{
	"Room":        z.String().Required(),
	"DeviceID":    z.String(),
	"AirStatus":   z.String(),
	"Timestamp":   z.String(),
	"Temperature": z.Float64(),
	"Humidity":    z.Float64(),
	"AirQuality":  z.Float64(),
	"LightLevel":  z.Float64(),
})

// Producers emit ISO-8601 event times, with or without a zone offset
// (the simulator uses the naive local form).
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseCombinedPayload turns a raw transport payload into a validated
// Reading. All downstream code operates on the returned struct, never
// on the raw bytes.
func ParseCombinedPayload(raw []byte) (*models.Reading, error) {
	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if _, hasRoom := probe["room"]; !hasRoom {
		return nil, ErrPartialPayload
	}

	payload := combinedPayload{
		Temperature: NeutralTemperature,
		AirQuality:  NeutralAirQuality,
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if issues := combinedPayloadSchema.Validate(&payload); issues != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, issues)
	}

	return &models.Reading{
		DeviceID:    payload.DeviceID,
		Room:        payload.Room,
		Temperature: payload.Temperature,
		Humidity:    payload.Humidity,
		AirQuality:  payload.AirQuality,
		AirStatus:   payload.AirStatus,
		LightLevel:  payload.LightLevel,
		Timestamp:   parseTimestamp(payload.Timestamp),
	}, nil
}

// parseTimestamp falls back to ingestion wall-clock time when the
// producer-supplied event time is absent or unreadable; the reading
// itself is still worth keeping.
func parseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts
		}
	}
	return time.Now()
}
