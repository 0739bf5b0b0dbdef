package scheduling

import (
	"context"
	"time"
)

// All branches operate on Western Indonesia Time (UTC+7).
var wib = time.FixedZone("WIB", 7*60*60)

type Branch struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Location returns the branch wall-clock zone. Every branch runs on WIB.
func (b *Branch) Location() *time.Location { return wib }

// LocalZone is the shared branch wall-clock zone, for callers that need
// to interpret a calendar date before any branch is resolved.
func LocalZone() *time.Location { return wib }

// Agent is a schedulable CS representative. Display-only kiosk accounts
// never appear in a roster (see AgentRoster).
type Agent struct {
	ID       int64  `json:"id"`
	BranchID int64  `json:"branch_id"`
	Username string `json:"username"`
}

type TicketStatus string

const (
	StatusWaiting    TicketStatus = "waiting"
	StatusInProgress TicketStatus = "in_progress"
	StatusDone       TicketStatus = "done"
	StatusSkipped    TicketStatus = "skipped"
	StatusCanceled   TicketStatus = "canceled"
)

// ValidStatus reports whether s is one of the known ticket statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusDone, StatusSkipped, StatusCanceled:
		return true
	}
	return false
}

type Ticket struct {
	ID            int64        `json:"id"`
	BranchID      int64        `json:"branch_id"`
	CustomerPhone string       `json:"customer_phone"`
	ServiceIDs    []int64      `json:"service_ids,omitempty"`
	BookingDate   time.Time    `json:"booking_date"`
	EstimatedAt   time.Time    `json:"estimated_at"`
	CSID          int64        `json:"cs_id"`
	Number        string       `json:"ticket_number"`
	Status        TicketStatus `json:"status"`
	Notify        bool         `json:"notify"`
	// TotalMinutes is the summed estimated service time, filled when the
	// ticket is read back for a day replay.
	TotalMinutes int       `json:"total_minutes,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// StatusLog is one row of a ticket's audit trail. Exactly one log row is
// written per accepted transition, and one ("waiting") at creation.
type StatusLog struct {
	ID        int64        `json:"id,omitempty"`
	TicketID  int64        `json:"ticket_id"`
	Status    TicketStatus `json:"status"`
	Reason    string       `json:"reason,omitempty"`
	Actor     string       `json:"actor,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

type BranchStore interface {
	GetBranch(ctx context.Context, id int64) (*Branch, error)
}

// AgentRoster lists the schedulable agents of a branch in priority order.
// The order is the tie-break when several agents are equally free.
type AgentRoster interface {
	ListEligibleAgents(ctx context.Context, branchID int64) ([]Agent, error)
}

// ServiceCatalog resolves service ids to estimated minutes. Ids absent
// from the returned map are scheduled as zero-minute services.
type ServiceCatalog interface {
	GetDurations(ctx context.Context, serviceIDs []int64) (map[int64]int, error)
}

type TicketStore interface {
	// ListByLocalDay returns the branch tickets whose estimated time falls
	// in [fromUTC, toUTC), ordered by estimated time ascending.
	ListByLocalDay(ctx context.Context, branchID int64, fromUTC, toUTC time.Time) ([]Ticket, error)
	HasActiveTicket(ctx context.Context, branchID int64, phone string) (bool, error)
	// CreateWithLog persists the ticket and its first status log in one
	// transaction and fills t.ID and t.CreatedAt.
	CreateWithLog(ctx context.Context, t *Ticket, log StatusLog) error
	GetTicket(ctx context.Context, id int64) (*Ticket, error)
	// UpdateStatusWithLog commits from -> to atomically with its audit
	// row. The write is guarded on the expected from-status: if another
	// transition slipped in since the caller read the ticket, the store
	// returns ErrConflict and writes nothing.
	UpdateStatusWithLog(ctx context.Context, id int64, from, to TicketStatus, log StatusLog) (*Ticket, error)
	// UpdateScheduleWithLog moves a ticket to a new day in place
	// (reschedule): booking date, estimated time, agent, number and
	// notify flag are rewritten together with an audit log row,
	// atomically.
	UpdateScheduleWithLog(ctx context.Context, id int64, bookingDate, estimatedAt time.Time, csID int64, number string, notify bool, log StatusLog) (*Ticket, error)
	ListWaitingIDs(ctx context.Context, branchID int64, limit int) ([]int64, error)
	SetNotifyFlags(ctx context.Context, ids []int64) error
}

// Notifier receives ticket lifecycle events. Implementations deliver
// best-effort: the scheduler logs and ignores their errors.
type Notifier interface {
	TicketCreated(ctx context.Context, t *Ticket) error
	StatusChanged(ctx context.Context, t *Ticket, old TicketStatus) error
}
