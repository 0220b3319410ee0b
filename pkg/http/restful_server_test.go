package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"homesense/pkg/hub/mocks"
	_ "homesense/pkg/testing"

	"homesense/pkg/common"
	"homesense/pkg/db"
	"homesense/pkg/hub"
	"homesense/pkg/models"
)

func setupTestServer() *RestfulServer {
	hubObj := hub.Hub{
		Db: *db.GetInstance(db.UseMemorySqliteDialector()),
	}
	hubObj.WithServices(hub.ServiceOpts{
		Ingest: hubObj.GetIIngest(),
		Query:  hubObj.GetIQuery(),
		Stats:  hubObj.GetIStats(),
	})

	rs := &RestfulServer{
		Server:     gin.Default(),
		Hub:        &hubObj,
		StatsCache: hub.NewStatsCache(hubObj.Stats, hub.DefaultStatsWindow),
		// default we use no limiter, if need, later assign it rs.RateLimiterStore = hub.NewRateLimiterStore(...)
	}

	rs.Setup()

	return rs
}

func seedReading(t *testing.T, rs *RestfulServer, reading models.Reading) models.Reading {
	t.Helper()
	err := rs.Hub.Db.Conn.Create(&reading).Error
	require.NoError(t, err)
	return reading
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetReadings(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	room := uuid.NewString()
	ts := time.Date(3000, 6, 1, 12, 0, 0, 0, time.UTC)
	seedReading(t, rs, models.Reading{
		DeviceID:    "smart-home-sensor-01",
		Room:        room,
		Temperature: 30.5,
		Humidity:    50.0,
		AirQuality:  90.0,
		AirStatus:   models.AirStatusGood,
		LightLevel:  300.0,
		Timestamp:   ts,
	})

	req := httptest.NewRequest("GET", "/api/readings?limit=1", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var records []ReadingRecord
	err := json.Unmarshal(w.Body.Bytes(), &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, room, records[0].Room)
	assert.Equal(t, 30.5, records[0].Temperature)
	assert.Equal(t, models.LevelStatusHigh, records[0].TempStatus)
}

func TestGetReadings_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		rs := setupTestServer()
		// non-numeric limit should be rejected, not crash
		req := httptest.NewRequest("GET", "/api/readings?limit=abc", nil)
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockQuery := mocks.NewMockIQuery(ctrl)
		rs.Hub.Query = mockQuery
		mockQuery.EXPECT().
			ListRecent(gomock.Eq(DefaultReadingsLimit)).
			Return(nil, fmt.Errorf("just causing error")).
			Times(1)

		req := httptest.NewRequest("GET", "/api/readings", nil)
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &body)
		assert.NoError(t, err)
		assert.Contains(t, body, "error")
	}
}

func TestGetLatest(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	room := uuid.NewString()
	base := time.Now().Truncate(time.Second)
	seedReading(t, rs, models.Reading{
		Room: room, Temperature: 17.0, Humidity: 65.0, Timestamp: base,
	})
	seedReading(t, rs, models.Reading{
		Room: room, Temperature: 16.0, Humidity: 70.0, Timestamp: base.Add(time.Minute),
	})

	req := httptest.NewRequest("GET", "/api/latest", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var snapshots []models.RoomSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &snapshots)
	require.NoError(t, err)

	var got *models.RoomSnapshot
	for i := range snapshots {
		if snapshots[i].Room == room {
			got = &snapshots[i]
			break
		}
	}
	require.NotNil(t, got, "room %s missing from snapshot", room)
	assert.Equal(t, 16.0, got.Temperature)
	assert.Equal(t, models.LevelStatusLow, got.TempStatus)
	assert.Equal(t, models.LevelStatusHigh, got.HumidityStatus)
}

func TestGetLatest_StorageError(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockQuery := mocks.NewMockIQuery(ctrl)
	rs.Hub.Query = mockQuery
	mockQuery.EXPECT().
		LatestPerRoom().
		Return(nil, fmt.Errorf("just causing error")).
		Times(1)

	req := httptest.NewRequest("GET", "/api/latest", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetStatsUsesCache(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStats := mocks.NewMockIStats(ctrl)
	mockStats.EXPECT().
		StatsByRoom().
		Return([]models.RoomStatistics{{Room: "kitchen", TotalReadings: 5}}, nil).
		Times(1)

	now := time.Unix(5000, 0)
	rs.StatsCache = hub.NewStatsCache(mockStats, 30*time.Second).
		WithClock(func() time.Time { return now })

	for range 2 {
		req := httptest.NewRequest("GET", "/api/stats", nil)
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var stats []models.RoomStatistics
		err := json.Unmarshal(w.Body.Bytes(), &stats)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, "kitchen", stats[0].Room)
	}
}

func TestRateLimitedClient(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	rs.RateLimiterStore = hub.NewRateLimiterStore(0, 0)

	req := httptest.NewRequest("GET", "/api/latest", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
