package amqp

import (
	"encoding/json"
	"time"

	"github.com/mmynk/groupledger/internal/notify"
)

// MutationMessage is the body published for every applied mutation.
// Consumers refresh whatever they cache under Scope.
type MutationMessage struct {
	Scope     string    `json:"scope"`
	Kind      string    `json:"kind"`
	ExpenseID int64     `json:"expense_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	DebtorID  string    `json:"debtor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMutationMessage builds a message from a notify.Event.
func NewMutationMessage(event notify.Event) *MutationMessage {
	return &MutationMessage{
		Scope:     event.Scope,
		Kind:      string(event.Kind),
		ExpenseID: event.ExpenseID,
		UserID:    event.UserID,
		DebtorID:  event.DebtorID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationMessageFromJSON creates a message from JSON bytes
func MutationMessageFromJSON(data []byte) (*MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
