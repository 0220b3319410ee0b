package hub

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"homesense/pkg/common"
	"homesense/pkg/hub/mocks"
	"homesense/pkg/models"
	_ "homesense/pkg/testing"
)

func TestStatsCacheSingleComputationPerWindow(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStats := mocks.NewMockIStats(ctrl)
	expected := []models.RoomStatistics{{Room: "kitchen", TotalReadings: 3}}

	// One aggregation only, however many callers arrive in the window.
	mockStats.EXPECT().StatsByRoom().Return(expected, nil).Times(1)

	now := time.Unix(1000, 0)
	cache := NewStatsCache(mockStats, 30*time.Second).WithClock(func() time.Time { return now })

	first, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, expected, first)

	second, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, expected, second)
}

func TestStatsCacheRecomputesAfterWindowRollover(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStats := mocks.NewMockIStats(ctrl)
	mockStats.EXPECT().StatsByRoom().Return([]models.RoomStatistics{}, nil).Times(2)

	now := time.Unix(990, 0)
	cache := NewStatsCache(mockStats, 30*time.Second).WithClock(func() time.Time { return now })

	_, err := cache.Get()
	require.NoError(t, err)

	// Same window, no recompute.
	now = time.Unix(1019, 0)
	_, err = cache.Get()
	require.NoError(t, err)

	// Window rollover, recompute.
	now = time.Unix(1020, 0)
	_, err = cache.Get()
	require.NoError(t, err)
}

func TestStatsCacheFailureNotCached(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStats := mocks.NewMockIStats(ctrl)
	gomock.InOrder(
		mockStats.EXPECT().StatsByRoom().Return(nil, fmt.Errorf("just causing error")),
		mockStats.EXPECT().StatsByRoom().Return([]models.RoomStatistics{}, nil),
	)

	now := time.Unix(2000, 0)
	cache := NewStatsCache(mockStats, 30*time.Second).WithClock(func() time.Time { return now })

	_, err := cache.Get()
	assert.Error(t, err)

	// Next caller in the same window retries instead of seeing a stale slot.
	stats, err := cache.Get()
	assert.NoError(t, err)
	assert.NotNil(t, stats)
}

func TestStatsCacheConcurrentCallers(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStats := mocks.NewMockIStats(ctrl)
	mockStats.EXPECT().StatsByRoom().Return([]models.RoomStatistics{}, nil).Times(1)

	now := time.Unix(3000, 0)
	cache := NewStatsCache(mockStats, 30*time.Second).WithClock(func() time.Time { return now })

	done := make(chan error, 10)
	for range 10 {
		go func() {
			_, err := cache.Get()
			done <- err
		}()
	}
	for range 10 {
		assert.NoError(t, <-done)
	}
}
