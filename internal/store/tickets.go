package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
)

type TicketStore struct {
	db *pgxpool.Pool
}

var _ scheduling.TicketStore = (*TicketStore)(nil)

func NewTicketStore(db *pgxpool.Pool) *TicketStore {
	return &TicketStore{db: db}
}

const ticketColumns = `t.id, t.branch_id, t.customer_phone, t.booking_date, t.estimated_at,
	t.cs_id, t.ticket_number, t.status, t.notify, t.created_at`

// ListByLocalDay returns the branch's tickets estimated inside
// [fromUTC, toUTC), ascending by estimated time, each with its summed
// service minutes so the scheduler can replay the day.
func (s *TicketStore) ListByLocalDay(ctx context.Context, branchID int64, fromUTC, toUTC time.Time) ([]scheduling.Ticket, error) {
	q := `SELECT ` + ticketColumns + `,
	             COALESCE(SUM(sv.estimated_time), 0) AS total_minutes
	      FROM tickets t
	      LEFT JOIN ticket_services ts ON ts.ticket_id = t.id
	      LEFT JOIN services sv ON sv.id = ts.service_id
	      WHERE t.branch_id=$1 AND t.estimated_at >= $2 AND t.estimated_at < $3
	      GROUP BY t.id
	      ORDER BY t.estimated_at ASC`
	rows, err := s.db.Query(ctx, q, branchID, fromUTC, toUTC)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", mapErr(err))
	}
	defer rows.Close()

	var out []scheduling.Ticket
	for rows.Next() {
		var t scheduling.Ticket
		if err := rows.Scan(&t.ID, &t.BranchID, &t.CustomerPhone, &t.BookingDate, &t.EstimatedAt,
			&t.CSID, &t.Number, &t.Status, &t.Notify, &t.CreatedAt, &t.TotalMinutes); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TicketStore) HasActiveTicket(ctx context.Context, branchID int64, phone string) (bool, error) {
	q := `SELECT EXISTS(
	        SELECT 1 FROM tickets
	        WHERE branch_id=$1 AND customer_phone=$2
	          AND status IN ('waiting', 'in_progress'))`
	var active bool
	if err := s.db.QueryRow(ctx, q, branchID, phone).Scan(&active); err != nil {
		return false, fmt.Errorf("active ticket check: %w", mapErr(err))
	}
	return active, nil
}

// CreateWithLog inserts the ticket, its service links and the initial
// status log in one transaction. A half-written ticket with no log row
// would break the audit trail, so the write is all-or-nothing.
func (s *TicketStore) CreateWithLog(ctx context.Context, t *scheduling.Ticket, log scheduling.StatusLog) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", mapErr(err))
	}
	defer tx.Rollback(ctx)

	insertQ := `INSERT INTO tickets
	        (branch_id, customer_phone, booking_date, estimated_at, cs_id, ticket_number, status, notify, created_at)
	        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
	        RETURNING id, created_at`
	err = tx.QueryRow(ctx, insertQ,
		t.BranchID, t.CustomerPhone, t.BookingDate, t.EstimatedAt,
		t.CSID, t.Number, t.Status, t.Notify,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", mapErr(err))
	}

	for _, sid := range t.ServiceIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ticket_services (ticket_id, service_id) VALUES ($1,$2)`,
			t.ID, sid); err != nil {
			return fmt.Errorf("insert ticket service: %w", mapErr(err))
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO ticket_logs (ticket_id, status, reason, actor, created_at) VALUES ($1,$2,$3,$4,now())`,
		t.ID, log.Status, log.Reason, log.Actor); err != nil {
		return fmt.Errorf("insert ticket log: %w", mapErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", mapErr(err))
	}
	return nil
}

func (s *TicketStore) GetTicket(ctx context.Context, id int64) (*scheduling.Ticket, error) {
	q := `SELECT ` + ticketColumns + `,
	             COALESCE((SELECT array_agg(ts.service_id ORDER BY ts.service_id)
	                       FROM ticket_services ts WHERE ts.ticket_id = t.id), '{}')
	      FROM tickets t WHERE t.id=$1`
	var t scheduling.Ticket
	err := s.db.QueryRow(ctx, q, id).Scan(&t.ID, &t.BranchID, &t.CustomerPhone, &t.BookingDate,
		&t.EstimatedAt, &t.CSID, &t.Number, &t.Status, &t.Notify, &t.CreatedAt, &t.ServiceIDs)
	if errors.Is(err, errNoRows) {
		return nil, scheduling.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", mapErr(err))
	}
	return &t, nil
}

func (s *TicketStore) UpdateStatusWithLog(ctx context.Context, id int64, from, to scheduling.TicketStatus, log scheduling.StatusLog) (*scheduling.Ticket, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", mapErr(err))
	}
	defer tx.Rollback(ctx)

	// Lock the row and re-check the from-status inside the transaction:
	// a transition validated against a stale read must not commit.
	var current scheduling.TicketStatus
	err = tx.QueryRow(ctx, `SELECT status FROM tickets WHERE id=$1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, errNoRows) {
		return nil, scheduling.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock ticket: %w", mapErr(err))
	}
	if current != from {
		return nil, fmt.Errorf("ticket %d is %s, not %s: %w", id, current, from, scheduling.ErrConflict)
	}

	q := `UPDATE tickets SET status=$1 WHERE id=$2
	      RETURNING id, branch_id, customer_phone, booking_date, estimated_at,
	                cs_id, ticket_number, status, notify, created_at`
	var t scheduling.Ticket
	err = tx.QueryRow(ctx, q, to, id).Scan(&t.ID, &t.BranchID, &t.CustomerPhone, &t.BookingDate,
		&t.EstimatedAt, &t.CSID, &t.Number, &t.Status, &t.Notify, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", mapErr(err))
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO ticket_logs (ticket_id, status, reason, actor, created_at) VALUES ($1,$2,$3,$4,now())`,
		id, log.Status, log.Reason, log.Actor); err != nil {
		return nil, fmt.Errorf("insert ticket log: %w", mapErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", mapErr(err))
	}
	return &t, nil
}

// UpdateScheduleWithLog rewrites a ticket's day assignment in place for
// the reschedule job, together with an audit row, atomically.
func (s *TicketStore) UpdateScheduleWithLog(ctx context.Context, id int64, bookingDate, estimatedAt time.Time, csID int64, number string, notify bool, log scheduling.StatusLog) (*scheduling.Ticket, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", mapErr(err))
	}
	defer tx.Rollback(ctx)

	q := `UPDATE tickets
	      SET booking_date=$1, estimated_at=$2, cs_id=$3, ticket_number=$4, notify=$5
	      WHERE id=$6
	      RETURNING id, branch_id, customer_phone, booking_date, estimated_at,
	                cs_id, ticket_number, status, notify, created_at`
	var t scheduling.Ticket
	err = tx.QueryRow(ctx, q, bookingDate, estimatedAt, csID, number, notify, id).Scan(
		&t.ID, &t.BranchID, &t.CustomerPhone, &t.BookingDate, &t.EstimatedAt,
		&t.CSID, &t.Number, &t.Status, &t.Notify, &t.CreatedAt)
	if errors.Is(err, errNoRows) {
		return nil, scheduling.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update schedule: %w", mapErr(err))
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO ticket_logs (ticket_id, status, reason, actor, created_at) VALUES ($1,$2,$3,$4,now())`,
		id, log.Status, log.Reason, log.Actor); err != nil {
		return nil, fmt.Errorf("insert ticket log: %w", mapErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", mapErr(err))
	}
	return &t, nil
}

func (s *TicketStore) ListWaitingIDs(ctx context.Context, branchID int64, limit int) ([]int64, error) {
	q := `SELECT id FROM tickets
	      WHERE branch_id=$1 AND status='waiting'
	      ORDER BY id ASC LIMIT $2`
	rows, err := s.db.Query(ctx, q, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list waiting: %w", mapErr(err))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *TicketStore) SetNotifyFlags(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.db.Exec(ctx, `UPDATE tickets SET notify=true WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("set notify flags: %w", mapErr(err))
	}
	return nil
}

// ListLogs returns a ticket's status history, oldest first.
func (s *TicketStore) ListLogs(ctx context.Context, ticketID int64) ([]scheduling.StatusLog, error) {
	q := `SELECT id, ticket_id, status, reason, actor, created_at
	      FROM ticket_logs WHERE ticket_id=$1 ORDER BY id ASC`
	rows, err := s.db.Query(ctx, q, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", mapErr(err))
	}
	defer rows.Close()

	var out []scheduling.StatusLog
	for rows.Next() {
		var l scheduling.StatusLog
		if err := rows.Scan(&l.ID, &l.TicketID, &l.Status, &l.Reason, &l.Actor, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
