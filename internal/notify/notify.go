// Package notify carries the after-mutation hook fired by the ledger.
// Delivery is fire-and-forget: notifiers log their own failures and never
// report back to the caller.
package notify

import (
	"context"
	"log/slog"
)

// Kind names the mutation that happened.
type Kind string

const (
	ExpenseCreated  Kind = "expense.created"
	ExpenseDeleted  Kind = "expense.deleted"
	ExpenseResolved Kind = "expense.resolved"
	DebtSettled     Kind = "debt.settled"
	MemberJoined    Kind = "group.member_joined"
	MemberLeft      Kind = "group.member_left"
)

// Event describes one applied mutation.
type Event struct {
	// Scope is the cache/refresh key affected, e.g. "group:<id>".
	Scope     string
	Kind      Kind
	ExpenseID int64
	// UserID is the caller who applied the mutation.
	UserID    string
	// DebtorID is set for DebtSettled.
	DebtorID  string
}

// GroupScope returns the scope key for a group.
func GroupScope(groupID string) string {
	return "group:" + groupID
}

// Notifier is invoked after every applied mutation.
type Notifier interface {
	AfterMutation(ctx context.Context, event Event)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, event Event)

// AfterMutation calls f.
func (f Func) AfterMutation(ctx context.Context, event Event) {
	f(ctx, event)
}

// Log writes every event to slog at info level.
type Log struct{}

// AfterMutation implements Notifier.
func (Log) AfterMutation(ctx context.Context, event Event) {
	attrs := []any{
		"scope", event.Scope,
		"kind", event.Kind,
		"expense_id", event.ExpenseID,
		"user_id", event.UserID,
	}
	if event.DebtorID != "" {
		attrs = append(attrs, "debtor_id", event.DebtorID)
	}
	slog.InfoContext(ctx, "Mutation applied", attrs...)
}

// Multi fans an event out to several notifiers in order.
type Multi []Notifier

// AfterMutation implements Notifier.
func (m Multi) AfterMutation(ctx context.Context, event Event) {
	for _, n := range m {
		if n != nil {
			n.AfterMutation(ctx, event)
		}
	}
}
