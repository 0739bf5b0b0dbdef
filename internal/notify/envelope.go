package notify

import (
	"time"

	"github.com/google/uuid"
)

const producer = "be-temucs/queue-scheduler"

// Event type keys, also used as routing keys on the topic exchange.
const (
	TypeTicketCreated = "ticket.created.v1"
	TypeStatusChanged = "ticket.status_changed.v1"
)

type Meta struct {
	// Unique event ID
	ID string `json:"id"`
	// Event name and version, e.g. ticket.created.v1
	Type string `json:"type"`
	// Emitting service
	Producer string `json:"producer"`
	// Timestamp when the event was emitted
	Time time.Time `json:"time"`
}

type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

func newEnvelope(eventType string, data any) Envelope {
	return Envelope{
		Meta: Meta{
			ID:       uuid.NewString(),
			Type:     eventType,
			Producer: producer,
			Time:     time.Now().UTC(),
		},
		Data: data,
	}
}
