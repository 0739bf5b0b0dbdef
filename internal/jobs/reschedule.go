// Package jobs hosts the day-level batch work around the scheduler. The
// holiday job moves every still-waiting ticket off a holiday onto the
// next open day by re-running the same scheduling path.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/team-final-project-3/be-temucs-sub000/internal/holiday"
	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
)

type BranchLister interface {
	ListBranches(ctx context.Context) ([]scheduling.Branch, error)
}

type DayTicketLister interface {
	ListByLocalDay(ctx context.Context, branchID int64, fromUTC, toUTC time.Time) ([]scheduling.Ticket, error)
}

// holidayHorizonDays bounds the search for the next non-holiday working
// day; a month of consecutive closures means the calendar data is wrong.
const holidayHorizonDays = 30

type Rescheduler struct {
	branches BranchLister
	tickets  DayTicketLister
	oracle   holiday.Oracle
	sched    *scheduling.Scheduler
	log      *slog.Logger
}

func NewRescheduler(branches BranchLister, tickets DayTicketLister, oracle holiday.Oracle, sched *scheduling.Scheduler, log *slog.Logger) *Rescheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Rescheduler{branches: branches, tickets: tickets, oracle: oracle, sched: sched, log: log}
}

// Run executes the job immediately and then on every tick until ctx is
// cancelled. The daily interval matches the holiday cache refresh.
func (r *Rescheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.RunOnce(ctx, time.Now()); err != nil {
			r.log.Error("holiday reschedule run failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce checks each branch's current local day against the holiday
// calendar and, on a holiday, moves that day's waiting tickets to the
// next open day. Per-ticket failures are logged and skipped so one bad
// ticket never strands the rest of the queue.
func (r *Rescheduler) RunOnce(ctx context.Context, now time.Time) error {
	branches, err := r.branches.ListBranches(ctx)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}

	for _, b := range branches {
		local := now.In(b.Location())
		hol, err := r.oracle.IsHoliday(ctx, local)
		if err != nil {
			r.log.Warn("holiday lookup failed", "branch_id", b.ID, "error", err)
			continue
		}
		if !hol {
			continue
		}

		target, err := r.nextOpenDay(ctx, local)
		if err != nil {
			r.log.Warn("no open day found", "branch_id", b.ID, "error", err)
			continue
		}

		fromUTC, toUTC := scheduling.LocalDayWindow(local)
		tickets, err := r.tickets.ListByLocalDay(ctx, b.ID, fromUTC, toUTC)
		if err != nil {
			r.log.Warn("day listing failed", "branch_id", b.ID, "error", err)
			continue
		}

		moved := 0
		for _, t := range tickets {
			if t.Status != scheduling.StatusWaiting {
				continue
			}
			if _, err := r.sched.Reschedule(ctx, t.ID, target); err != nil {
				r.log.Warn("reschedule failed", "ticket_id", t.ID, "error", err)
				continue
			}
			moved++
		}
		if moved > 0 {
			r.log.Info("holiday tickets rescheduled",
				"branch_id", b.ID,
				"day", local.Format("2006-01-02"),
				"target", target.Format("2006-01-02"),
				"moved", moved)
		}
	}
	return nil
}

// nextOpenDay finds the first working day after `day` that the holiday
// calendar does not mark closed.
func (r *Rescheduler) nextOpenDay(ctx context.Context, day time.Time) (time.Time, error) {
	d := scheduling.NextWorkingDayOpen(day)
	for i := 0; i < holidayHorizonDays; i++ {
		hol, err := r.oracle.IsHoliday(ctx, d)
		if err != nil {
			return time.Time{}, err
		}
		if !hol {
			return d, nil
		}
		d = scheduling.NextWorkingDayOpen(d)
	}
	return time.Time{}, fmt.Errorf("no open day within %d days of %s", holidayHorizonDays, day.Format("2006-01-02"))
}
