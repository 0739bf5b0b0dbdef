package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextWorkingDayOpen(t *testing.T) {
	tests := map[string]struct {
		from time.Time
		want time.Time
	}{
		"ThursdayToFriday": {
			from: wibTime(2025, time.June, 5, 14, 0),
			want: wibTime(2025, time.June, 6, 8, 0),
		},
		"FridaySkipsWeekend": {
			from: wibTime(2025, time.June, 6, 15, 30),
			want: wibTime(2025, time.June, 9, 8, 0),
		},
		"SaturdayToMonday": {
			from: wibTime(2025, time.June, 7, 10, 0),
			want: wibTime(2025, time.June, 9, 8, 0),
		},
		"SundayToMonday": {
			from: wibTime(2025, time.June, 8, 0, 0),
			want: wibTime(2025, time.June, 9, 8, 0),
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := NextWorkingDayOpen(tc.from)
			assert.True(t, tc.want.Equal(got), "want %v, got %v", tc.want, got)
		})
	}
}

func TestLocalDayWindow(t *testing.T) {
	// The WIB day 2025-06-06 spans 17:00 UTC the evening before through
	// 17:00 UTC that day.
	from, to := LocalDayWindow(wibTime(2025, time.June, 6, 9, 30))
	assert.True(t, from.Equal(time.Date(2025, time.June, 5, 17, 0, 0, 0, time.UTC)), "got %v", from)
	assert.True(t, to.Equal(time.Date(2025, time.June, 6, 17, 0, 0, 0, time.UTC)), "got %v", to)
}

func TestClosingBoundary(t *testing.T) {
	day := wibTime(2025, time.June, 6, 8, 0)
	assert.False(t, wibTime(2025, time.June, 6, 15, 0).After(closingOf(day)), "15:00 sharp is still inside the window")
	assert.True(t, wibTime(2025, time.June, 6, 15, 1).After(closingOf(day)))
}
