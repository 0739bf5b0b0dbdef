package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/team-final-project-3/be-temucs-sub000/internal/metrics"
)

// notifyWindow is how many tickets from the front of a day's queue are
// flagged for proactive call-up notification.
const notifyWindow = 5

// Scheduler assigns booking requests to CS slots. It owns the day search
// (working-hours clamp and rollover) and delegates the per-day earliest
// slot computation to findEarliestSlot.
type Scheduler struct {
	branches BranchStore
	roster   AgentRoster
	catalog  ServiceCatalog
	tickets  TicketStore
	notifier Notifier
	log      *slog.Logger
	locks    *branchLocks
}

type Option func(*Scheduler)

// WithNotifier attaches a best-effort event sink for created tickets and
// status changes.
func WithNotifier(n Notifier) Option {
	return func(s *Scheduler) { s.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

func NewScheduler(branches BranchStore, roster AgentRoster, catalog ServiceCatalog, tickets TicketStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		branches: branches,
		roster:   roster,
		catalog:  catalog,
		tickets:  tickets,
		locks:    newBranchLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// dayResult is the outcome of the bounded day search: the chosen agent,
// the branch-local slot instant, the day it landed on and how many
// tickets were already committed there.
type dayResult struct {
	agent    Agent
	slot     time.Time
	day      time.Time
	existing int
	hops     int
}

// Schedule books a ticket for the requested services at the earliest
// feasible CS slot on or after requestedAt. The ticket number, estimated
// time, agent and notify flag are fixed here and persisted atomically
// with the initial "waiting" log row.
func (s *Scheduler) Schedule(ctx context.Context, branchID int64, phone string, requestedAt time.Time, serviceIDs []int64) (*Ticket, error) {
	started := time.Now()

	if len(serviceIDs) == 0 {
		return nil, fmt.Errorf("branch %d: %w", branchID, ErrNoServices)
	}

	branch, err := s.branches.GetBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("branch %d: %w", branchID, err)
	}
	roster, err := s.roster.ListEligibleAgents(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("branch %d roster: %w", branchID, err)
	}
	if len(roster) == 0 {
		metrics.ScheduleFailuresTotal.WithLabelValues("no_agents").Inc()
		return nil, fmt.Errorf("branch %d: %w", branchID, ErrNoEligibleAgents)
	}

	durations, err := s.catalog.GetDurations(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("branch %d services: %w", branchID, err)
	}
	// A service with no recorded duration books as zero minutes rather
	// than failing the whole request.
	total := 0
	for _, id := range serviceIDs {
		if m := durations[id]; m > 0 {
			total += m
		}
	}

	unlock := s.locks.lock(branchID)
	defer unlock()

	// The active-ticket guard must see every committed booking, so it
	// runs inside the branch critical section.
	if phone != "" {
		active, err := s.tickets.HasActiveTicket(ctx, branchID, phone)
		if err != nil {
			return nil, fmt.Errorf("branch %d: %w", branchID, err)
		}
		if active {
			return nil, fmt.Errorf("branch %d phone %s: %w", branchID, phone, ErrActiveTicket)
		}
	}

	res, err := s.findDay(ctx, branch, roster, requestedAt.In(branch.Location()))
	if err != nil {
		metrics.ScheduleFailuresTotal.WithLabelValues("no_slot").Inc()
		return nil, err
	}

	t := &Ticket{
		BranchID:      branchID,
		CustomerPhone: phone,
		ServiceIDs:    serviceIDs,
		BookingDate:   res.day,
		EstimatedAt:   res.slot.UTC(),
		CSID:          res.agent.ID,
		Number:        ticketNumber(branch.Code, res.existing+1),
		Status:        StatusWaiting,
		Notify:        res.existing < notifyWindow,
		TotalMinutes:  total,
	}
	log := StatusLog{Status: StatusWaiting, Actor: "system", Reason: "ticket created"}
	if err := s.tickets.CreateWithLog(ctx, t, log); err != nil {
		metrics.ScheduleFailuresTotal.WithLabelValues("persist").Inc()
		return nil, wrapBranchDay(err, branchID, res.day.Format("2006-01-02"))
	}

	metrics.TicketsScheduledTotal.WithLabelValues(branch.Code).Inc()
	metrics.RolloverDays.Observe(float64(res.hops))
	metrics.ScheduleDurationSeconds.Observe(time.Since(started).Seconds())

	s.emitCreated(ctx, t)
	return t, nil
}

// findDay runs the bounded rollover search: simulate the target day,
// clamp pre-opening candidates to 08:00, and advance to the next working
// day whenever the candidate falls past closing. anchor is branch-local;
// on the first pass it is the requested booking instant, afterwards the
// 08:00 opening of each candidate day.
func (s *Scheduler) findDay(ctx context.Context, branch *Branch, roster []Agent, anchor time.Time) (*dayResult, error) {
	day := anchor
	for hops := 0; hops <= maxDayAdvances; hops++ {
		if !isWorkingDay(day) {
			day = NextWorkingDayOpen(day)
			continue
		}

		fromUTC, toUTC := LocalDayWindow(day)
		listed, err := s.tickets.ListByLocalDay(ctx, branch.ID, fromUTC, toUTC)
		if err != nil {
			return nil, wrapBranchDay(err, branch.ID, day.Format("2006-01-02"))
		}
		committed := commitmentsOf(listed)

		idx, slot := findEarliestSlot(len(roster), committed, day)
		if slot.Before(openingOf(day)) {
			// Clamping the anchor forward can change which agent is
			// earliest, so the whole replay runs again.
			idx, slot = findEarliestSlot(len(roster), committed, openingOf(day))
		}
		if slot.After(closingOf(day)) {
			day = NextWorkingDayOpen(day)
			continue
		}

		return &dayResult{
			agent:    roster[idx],
			slot:     slot.In(branch.Location()),
			day:      localDayOf(day),
			existing: len(listed),
			hops:     hops,
		}, nil
	}
	return nil, wrapBranchDay(ErrNoSlotFound, branch.ID, anchor.Format("2006-01-02"))
}

// TransitionStatus moves a ticket through its lifecycle. Accepted
// transitions append exactly one log row atomically with the update.
// When the new status frees a queue position, the next waiting tickets
// get their notify flag refreshed best-effort before returning.
func (s *Scheduler) TransitionStatus(ctx context.Context, ticketID int64, newStatus TicketStatus, actor string) (*Ticket, error) {
	t, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, err)
	}
	if err := checkTransition(t.Status, newStatus); err != nil {
		return nil, fmt.Errorf("ticket %d %s -> %s: %w", ticketID, t.Status, newStatus, err)
	}

	updated, err := s.tickets.UpdateStatusWithLog(ctx, ticketID, t.Status, newStatus, StatusLog{
		TicketID: ticketID,
		Status:   newStatus,
		Actor:    actor,
	})
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, err)
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(newStatus)).Inc()

	if isQueueTerminal(newStatus) {
		s.refreshNotifyFlags(ctx, t.BranchID)
	}
	s.emitStatusChanged(ctx, updated, t.Status)
	return updated, nil
}

// Reschedule moves a still-waiting ticket onto targetDay (or later, if
// that day fills up), rewriting its estimated time, agent and number in
// place. Used by the holiday batch job; it is the same day search as a
// fresh booking, anchored at the target day's opening.
func (s *Scheduler) Reschedule(ctx context.Context, ticketID int64, targetDay time.Time) (*Ticket, error) {
	t, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, err)
	}
	if t.Status != StatusWaiting {
		return nil, fmt.Errorf("ticket %d status %s: %w", ticketID, t.Status, ErrInvalidTransition)
	}
	branch, err := s.branches.GetBranch(ctx, t.BranchID)
	if err != nil {
		return nil, fmt.Errorf("branch %d: %w", t.BranchID, err)
	}
	roster, err := s.roster.ListEligibleAgents(ctx, t.BranchID)
	if err != nil {
		return nil, fmt.Errorf("branch %d roster: %w", t.BranchID, err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("branch %d: %w", t.BranchID, ErrNoEligibleAgents)
	}

	unlock := s.locks.lock(t.BranchID)
	defer unlock()

	res, err := s.findDay(ctx, branch, roster, openingOf(targetDay.In(branch.Location())))
	if err != nil {
		return nil, err
	}

	updated, err := s.tickets.UpdateScheduleWithLog(ctx, ticketID,
		res.day, res.slot.UTC(), res.agent.ID,
		ticketNumber(branch.Code, res.existing+1),
		res.existing < notifyWindow,
		StatusLog{TicketID: ticketID, Status: t.Status, Actor: "system", Reason: "rescheduled"},
	)
	if err != nil {
		return nil, wrapBranchDay(err, t.BranchID, res.day.Format("2006-01-02"))
	}

	metrics.TicketsRescheduledTotal.Inc()
	s.emitStatusChanged(ctx, updated, t.Status)
	return updated, nil
}

// refreshNotifyFlags marks the front of the branch's waiting queue as
// notification-eligible. Best-effort bookkeeping: failures are logged,
// never surfaced.
func (s *Scheduler) refreshNotifyFlags(ctx context.Context, branchID int64) {
	ids, err := s.tickets.ListWaitingIDs(ctx, branchID, notifyWindow)
	if err != nil {
		s.log.Warn("notify flag refresh failed", "branch_id", branchID, "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}
	if err := s.tickets.SetNotifyFlags(ctx, ids); err != nil {
		s.log.Warn("notify flag refresh failed", "branch_id", branchID, "error", err)
		return
	}
	metrics.NotifyFlagsSetTotal.Add(float64(len(ids)))
}

func (s *Scheduler) emitCreated(ctx context.Context, t *Ticket) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.TicketCreated(ctx, t); err != nil {
		s.log.Warn("ticket created event dropped", "ticket_id", t.ID, "error", err)
	}
}

func (s *Scheduler) emitStatusChanged(ctx context.Context, t *Ticket, old TicketStatus) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.StatusChanged(ctx, t, old); err != nil {
		s.log.Warn("status changed event dropped", "ticket_id", t.ID, "error", err)
	}
}

// ticketNumber renders the branch-scoped display number, e.g. B-KCP01-007.
func ticketNumber(branchCode string, seq int) string {
	return fmt.Sprintf("B-%s-%03d", branchCode, seq)
}
