// Package ledger orchestrates the shared-expense workflow on top of storage:
// it validates and splits new expenses, applies settlement transitions at most
// once, and reduces group snapshots into balances. Every applied mutation is
// reported to a notify.Notifier.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/notify"
	"github.com/mmynk/groupledger/internal/storage"
)

// Identity resolves the authenticated caller.
type Identity interface {
	CurrentUser(ctx context.Context) (string, error)
}

// IdentityFunc adapts a function to the Identity interface.
type IdentityFunc func(ctx context.Context) (string, error)

// CurrentUser calls f.
func (f IdentityFunc) CurrentUser(ctx context.Context) (string, error) {
	return f(ctx)
}

// Ledger is safe for concurrent use.
type Ledger struct {
	store    storage.Store
	identity Identity
	splitter calculator.Splitter
	notifier notify.Notifier
	metrics  *metrics.Metrics

	// transitions collapses concurrent resolve/settle calls on the same key.
	transitions singleflight.Group
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPlaces sets the currency precision (decimal places of the smallest unit).
func WithPlaces(places int32) Option {
	return func(l *Ledger) {
		l.splitter = calculator.NewSplitter(places)
	}
}

// WithNotifier replaces the default log notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(l *Ledger) {
		l.notifier = n
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// New creates a Ledger backed by store. identity resolves the caller of every operation.
func New(store storage.Store, identity Identity, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		identity: identity,
		splitter: calculator.NewSplitter(calculator.DefaultPlaces),
		notifier: notify.Log{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Places returns the configured currency precision.
func (l *Ledger) Places() int32 {
	return l.splitter.Places()
}

// caller returns the current user's ID.
func (l *Ledger) caller(ctx context.Context) (string, error) {
	userID, err := l.identity.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", errors.New("no authenticated user")
	}
	return userID, nil
}

// memberGroup loads groupID and checks that the caller belongs to it.
func (l *Ledger) memberGroup(ctx context.Context, groupID string) (string, *models.Group, error) {
	userID, err := l.caller(ctx)
	if err != nil {
		return "", nil, err
	}
	if groupID == "" {
		return "", nil, l.invalid(&models.ValidationError{Field: "group_id", Reason: "required"})
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return "", nil, err
	}
	if !group.HasMember(userID) {
		slog.Warn("Caller is not a group member", "user_id", userID, "group_id", groupID)
		return "", nil, models.ErrForbidden
	}
	return userID, group, nil
}

// snapshot reads and verifies a group's expenses.
func (l *Ledger) snapshot(ctx context.Context, groupID string) ([]models.ExpenseWithDebts, error) {
	expenses, err := l.store.ListExpensesForGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := calculator.VerifySnapshot(expenses); err != nil {
		slog.Error("Inconsistent expense in snapshot", "group_id", groupID, "error", err)
		return nil, err
	}
	return expenses, nil
}

func (l *Ledger) notify(ctx context.Context, groupID string, kind notify.Kind, expenseID int64, userID string) {
	l.notifier.AfterMutation(ctx, notify.Event{
		Scope:     notify.GroupScope(groupID),
		Kind:      kind,
		ExpenseID: expenseID,
		UserID:    userID,
	})
}

// invalid counts validation failures by field and returns err unchanged.
func (l *Ledger) invalid(err error) error {
	var v *models.ValidationError
	if l.metrics != nil && errors.As(err, &v) {
		l.metrics.ValidationFailures.WithLabelValues(v.Field).Inc()
	}
	return err
}

func (l *Ledger) transition(target string, changed bool) {
	if l.metrics == nil {
		return
	}
	outcome := "noop"
	if changed {
		outcome = "applied"
	}
	l.metrics.Transitions.WithLabelValues(target, outcome).Inc()
}

func (l *Ledger) observe(reduction string, start time.Time) {
	if l.metrics != nil {
		l.metrics.BalanceDuration.WithLabelValues(reduction).Observe(time.Since(start).Seconds())
	}
}
