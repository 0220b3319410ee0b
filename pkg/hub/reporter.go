package hub

import (
	"context"
	"time"

	"go.uber.org/zap"
	"homesense/pkg/common"
)

// DefaultReportInterval is the cadence of the background ingestion
// summary. Independent of the stats cache window.
const DefaultReportInterval = 30 * time.Second

// Reporter periodically logs ingestion volume: total readings, total
// alerts and the most recent reading. Diagnostic only; a failed tick
// is logged and the schedule continues.
type Reporter struct {
	query    IQuery
	interval time.Duration
}

func NewReporter(query IQuery, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &Reporter{query: query, interval: interval}
}

// Run blocks until ctx is cancelled. An in-flight report is allowed
// to finish; only the wait between ticks is interruptible.
func (r *Reporter) Run(ctx context.Context) {
	logger := common.GetLoggerWith(
		common.LoggerNameReporter,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryStats),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reporter stopped")
			return
		case <-ticker.C:
			r.reportOnce(logger)
		}
	}
}

func (r *Reporter) reportOnce(logger *zap.Logger) {
	readings, alerts, err := r.query.Totals()
	if err != nil {
		logger.Error("Failed to read totals", zap.Error(err))
		return
	}

	latest, err := r.query.LatestReading()
	if err != nil {
		logger.Error("Failed to read latest reading", zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.Int64("total_readings", readings),
		zap.Int64("total_alerts", alerts),
	}
	if latest != nil {
		fields = append(fields,
			zap.String("latest_room", latest.Room),
			zap.Float64("latest_temperature", latest.Temperature),
			zap.Float64("latest_humidity", latest.Humidity),
			zap.Float64("latest_air_quality", latest.AirQuality),
			zap.String("latest_air_status", latest.AirStatus),
		)
	}

	logger.Info("System statistics", fields...)
}
