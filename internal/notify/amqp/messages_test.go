package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/notify"
)

func TestMutationMessage(t *testing.T) {
	msg := NewMutationMessage(notify.Event{
		Scope:     notify.GroupScope("g1"),
		Kind:      notify.ExpenseDeleted,
		ExpenseID: 12,
		UserID:    "alice",
	})
	assert.False(t, msg.Timestamp.IsZero())

	body, err := msg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"scope":"group:g1"`)
	assert.Contains(t, string(body), `"kind":"expense.deleted"`)

	decoded, err := MutationMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, int64(12), decoded.ExpenseID)
	assert.Equal(t, "alice", decoded.UserID)

	assert.Empty(t, decoded.DebtorID)
	assert.NotContains(t, string(body), "debtor_id")

	_, err = MutationMessageFromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestMutationMessage_DebtSettled(t *testing.T) {
	msg := NewMutationMessage(notify.Event{
		Scope:     notify.GroupScope("g1"),
		Kind:      notify.DebtSettled,
		ExpenseID: 3,
		UserID:    "alice",
		DebtorID:  "bob",
	})

	body, err := msg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"user_id":"alice"`)
	assert.Contains(t, string(body), `"debtor_id":"bob"`)
}
