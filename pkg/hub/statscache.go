package hub

import (
	"sync"
	"time"

	"homesense/pkg/models"
)

// DefaultStatsWindow is how long one statistics snapshot stays valid.
const DefaultStatsWindow = 30 * time.Second

// StatsCache memoizes the whole-system room statistics for one time
// window. It holds a single slot keyed by the current window index;
// rollover of the wall clock invalidates it, so there is no eviction
// beyond recomputing when the index changes.
type StatsCache struct {
	stats  IStats
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	windowIdx int64
	cached    []models.RoomStatistics
	primed    bool
}

func NewStatsCache(stats IStats, window time.Duration) *StatsCache {
	if window <= 0 {
		window = DefaultStatsWindow
	}
	return &StatsCache{
		stats:  stats,
		window: window,
		now:    time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (c *StatsCache) WithClock(now func() time.Time) *StatsCache {
	c.now = now
	return c
}

// Get returns the statistics snapshot for the current window,
// recomputing at most once per window. Concurrent callers within one
// window share the previously computed result. A failed recompute is
// not cached, so the next caller retries.
func (c *StatsCache) Get() ([]models.RoomStatistics, error) {
	idx := c.now().Unix() / int64(c.window/time.Second)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primed && c.windowIdx == idx {
		return c.cached, nil
	}

	stats, err := c.stats.StatsByRoom()
	if err != nil {
		return nil, err
	}

	c.windowIdx = idx
	c.cached = stats
	c.primed = true
	return stats, nil
}
