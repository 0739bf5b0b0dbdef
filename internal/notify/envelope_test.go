package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEnvelopeMeta(t *testing.T) {
	env := newEnvelope(TypeTicketCreated, TicketCreatedData{TicketID: 7})

	assert.NotEmpty(t, env.Meta.ID)
	assert.Equal(t, TypeTicketCreated, env.Meta.Type)
	assert.Equal(t, producer, env.Meta.Producer)
	assert.False(t, env.Meta.Time.IsZero())

	data, ok := env.Data.(TicketCreatedData)
	assert.True(t, ok)
	assert.Equal(t, int64(7), data.TicketID)
}

func TestEnvelopeIDsAreUnique(t *testing.T) {
	a := newEnvelope(TypeStatusChanged, nil)
	b := newEnvelope(TypeStatusChanged, nil)
	assert.NotEqual(t, a.Meta.ID, b.Meta.ID)
}
