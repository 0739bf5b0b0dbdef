package holiday

import (
	"context"
	"sync"
	"time"

	"github.com/team-final-project-3/be-temucs-sub000/internal/metrics"
)

// DefaultRefresh is how long a cached answer stays valid. Holiday
// calendars change on the order of months; one day is plenty.
const DefaultRefresh = 24 * time.Hour

type cacheEntry struct {
	holiday   bool
	fetchedAt time.Time
}

// Cache memoizes an Oracle per calendar day with a refresh interval.
// It is owned by whoever constructs it and injected where needed; there
// is no package-level singleton.
type Cache struct {
	src     Oracle
	refresh time.Duration

	mu   sync.RWMutex
	days map[string]cacheEntry
}

func NewCache(src Oracle, refresh time.Duration) *Cache {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return &Cache{src: src, refresh: refresh, days: make(map[string]cacheEntry)}
}

func (c *Cache) IsHoliday(ctx context.Context, day time.Time) (bool, error) {
	key := day.Format(dayFormat)

	c.mu.RLock()
	e, ok := c.days[key]
	c.mu.RUnlock()
	if ok && time.Since(e.fetchedAt) < c.refresh {
		metrics.HolidayChecksTotal.WithLabelValues("hit").Inc()
		return e.holiday, nil
	}

	holiday, err := c.src.IsHoliday(ctx, day)
	if err != nil {
		// Serve a stale answer over failing the caller, if we have one.
		if ok {
			metrics.HolidayChecksTotal.WithLabelValues("stale").Inc()
			return e.holiday, nil
		}
		return false, err
	}

	c.mu.Lock()
	c.days[key] = cacheEntry{holiday: holiday, fetchedAt: time.Now()}
	c.mu.Unlock()
	metrics.HolidayChecksTotal.WithLabelValues("miss").Inc()
	return holiday, nil
}
