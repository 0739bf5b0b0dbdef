package holiday

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls    int
	holidays map[string]bool
	err      error
}

func (f *fakeSource) IsHoliday(_ context.Context, day time.Time) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.holidays[day.Format(dayFormat)], nil
}

func TestCacheAnswersFromMemoryWithinRefresh(t *testing.T) {
	src := &fakeSource{holidays: map[string]bool{"2025-06-06": true}}
	c := NewCache(src, time.Hour)
	ctx := context.Background()
	day := time.Date(2025, time.June, 6, 10, 0, 0, 0, time.UTC)

	hol, err := c.IsHoliday(ctx, day)
	require.NoError(t, err)
	assert.True(t, hol)

	hol, err = c.IsHoliday(ctx, day)
	require.NoError(t, err)
	assert.True(t, hol)
	assert.Equal(t, 1, src.calls, "second lookup must hit the cache")
}

func TestCacheServesStaleOnSourceFailure(t *testing.T) {
	src := &fakeSource{holidays: map[string]bool{"2025-06-06": true}}
	c := NewCache(src, time.Nanosecond) // force immediate expiry
	ctx := context.Background()
	day := time.Date(2025, time.June, 6, 10, 0, 0, 0, time.UTC)

	_, err := c.IsHoliday(ctx, day)
	require.NoError(t, err)

	src.err = errors.New("calendar unreachable")
	hol, err := c.IsHoliday(ctx, day)
	require.NoError(t, err, "stale entry should mask the failure")
	assert.True(t, hol)
}

func TestCacheSurfacesFailureWithoutEntry(t *testing.T) {
	src := &fakeSource{err: errors.New("calendar unreachable")}
	c := NewCache(src, time.Hour)

	_, err := c.IsHoliday(context.Background(), time.Now())
	assert.Error(t, err)
}
