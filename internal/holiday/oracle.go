// Package holiday answers "is this local calendar day a bank holiday".
// The authoritative source is a Google Calendar of national holidays; a
// daily-refreshed in-process cache sits in front of it so the batch job
// never hammers the API.
package holiday

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Oracle reports whether a branch-local calendar day is a holiday.
type Oracle interface {
	IsHoliday(ctx context.Context, day time.Time) (bool, error)
}

const dayFormat = "2006-01-02"

// CalendarOracle reads all-day events from a holiday calendar, e.g. the
// public "en.indonesian#holiday@group.v.calendar.google.com" feed.
type CalendarOracle struct {
	svc        *calendar.Service
	calendarID string
}

// NewCalendarOracle builds an oracle over a public holiday calendar
// using an API key.
func NewCalendarOracle(ctx context.Context, apiKey, calendarID string) (*CalendarOracle, error) {
	svc, err := calendar.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return &CalendarOracle{svc: svc, calendarID: calendarID}, nil
}

// NewCalendarOracleWithToken builds an oracle over a private calendar
// using an OAuth2 token obtained out of band.
func NewCalendarOracleWithToken(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, calendarID string) (*CalendarOracle, error) {
	client := cfg.Client(ctx, token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return &CalendarOracle{svc: svc, calendarID: calendarID}, nil
}

// IsHoliday queries the calendar for events overlapping the day. All-day
// holiday events carry a plain date, so any hit within the local day
// window marks the day as a holiday.
func (o *CalendarOracle) IsHoliday(ctx context.Context, day time.Time) (bool, error) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	events, err := o.svc.Events.List(o.calendarID).
		Context(ctx).
		SingleEvents(true).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		MaxResults(10).
		Do()
	if err != nil {
		return false, fmt.Errorf("holiday lookup %s: %w", start.Format(dayFormat), err)
	}
	return len(events.Items) > 0, nil
}
