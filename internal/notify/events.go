package notify

import (
	"context"
	"time"

	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
)

// TicketCreatedData is the payload of ticket.created.v1.
type TicketCreatedData struct {
	TicketID     int64     `json:"ticket_id"`
	BranchID     int64     `json:"branch_id"`
	TicketNumber string    `json:"ticket_number"`
	EstimatedAt  time.Time `json:"estimated_at"`
	Notify       bool      `json:"notify"`
}

// StatusChangedData is the payload of ticket.status_changed.v1.
type StatusChangedData struct {
	TicketID     int64     `json:"ticket_id"`
	BranchID     int64     `json:"branch_id"`
	TicketNumber string    `json:"ticket_number"`
	OldStatus    string    `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	EstimatedAt  time.Time `json:"estimated_at"`
}

// TicketEvents adapts a Publisher to the scheduler's Notifier port.
type TicketEvents struct {
	pub Publisher
}

func NewTicketEvents(pub Publisher) *TicketEvents {
	return &TicketEvents{pub: pub}
}

func (e *TicketEvents) TicketCreated(ctx context.Context, t *scheduling.Ticket) error {
	return e.pub.Publish(ctx, TypeTicketCreated, newEnvelope(TypeTicketCreated, TicketCreatedData{
		TicketID:     t.ID,
		BranchID:     t.BranchID,
		TicketNumber: t.Number,
		EstimatedAt:  t.EstimatedAt,
		Notify:       t.Notify,
	}))
}

func (e *TicketEvents) StatusChanged(ctx context.Context, t *scheduling.Ticket, old scheduling.TicketStatus) error {
	return e.pub.Publish(ctx, TypeStatusChanged, newEnvelope(TypeStatusChanged, StatusChangedData{
		TicketID:     t.ID,
		BranchID:     t.BranchID,
		TicketNumber: t.Number,
		OldStatus:    string(old),
		NewStatus:    string(t.Status),
		EstimatedAt:  t.EstimatedAt,
	}))
}
