package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesReceived counts every delivery from the transport,
	// including ones that end up dropped.
	MessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_messages_received_total",
			Help: "Total number of MQTT messages received",
		},
	)

	// ReadingsStored counts combined readings persisted to storage.
	ReadingsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_readings_stored_total",
			Help: "Total number of sensor readings persisted",
		},
	)

	// AlertsGenerated counts alerts persisted alongside readings.
	AlertsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_alerts_generated_total",
			Help: "Total number of alerts generated by the rule engine",
		},
	)

	// IngestErrors counts dropped messages by failure kind.
	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_ingest_errors_total",
			Help: "Total number of ingestion failures by kind",
		},
		[]string{"kind"},
	)
)

const (
	ErrorKindMalformed = "malformed"
	ErrorKindStorage   = "storage_unavailable"
)
