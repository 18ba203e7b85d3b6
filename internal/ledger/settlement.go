package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/notify"
)

// ResolveExpense marks the whole expense resolved. Resolving an already
// resolved expense is a no-op; changed reports whether the transition was
// applied by this call or a concurrent call it was collapsed with.
func (l *Ledger) ResolveExpense(ctx context.Context, expenseID int64) (changed bool, err error) {
	exp, userID, err := l.memberExpense(ctx, expenseID)
	if err != nil {
		return false, err
	}

	key := fmt.Sprintf("resolve/%d", expenseID)
	return l.applyOnce(ctx, key, func(ctx context.Context) (bool, error) {
		changed, err := l.store.SetExpenseResolved(ctx, expenseID)
		if err != nil {
			return false, err
		}
		l.transition("expense", changed)
		if changed {
			slog.Info("Expense resolved", "expense_id", expenseID, "user_id", userID)
			l.notify(ctx, exp.GroupID, notify.ExpenseResolved, expenseID, userID)
		}
		return changed, nil
	})
}

// SettleDebt marks debtorID's line on the expense settled, independently of
// the expense's resolved flag. A missing line fails with *models.NotFoundError;
// settling twice is a no-op. Concurrent calls for the same line apply the
// transition and fire the notification at most once.
func (l *Ledger) SettleDebt(ctx context.Context, expenseID int64, debtorID string) (changed bool, err error) {
	debtorID = strings.TrimSpace(debtorID)
	if debtorID == "" {
		return false, l.invalid(&models.ValidationError{Field: "debtor_id", Reason: "required"})
	}

	exp, userID, err := l.memberExpense(ctx, expenseID)
	if err != nil {
		return false, err
	}

	key := fmt.Sprintf("settle/%d/%s", expenseID, debtorID)
	return l.applyOnce(ctx, key, func(ctx context.Context) (bool, error) {
		changed, err := l.store.SetDebtLineSettled(ctx, expenseID, debtorID)
		if err != nil {
			return false, err
		}
		l.transition("debt_line", changed)
		if changed {
			slog.Info("Debt settled", "expense_id", expenseID, "debtor_id", debtorID, "user_id", userID)
			l.notifier.AfterMutation(ctx, notify.Event{
				Scope:     notify.GroupScope(exp.GroupID),
				Kind:      notify.DebtSettled,
				ExpenseID: expenseID,
				UserID:    userID,
				DebtorID:  debtorID,
			})
		}
		return changed, nil
	})
}

// applyOnce runs apply for key with at most one execution in flight; callers
// arriving meanwhile share its result. apply runs on a context detached from
// the caller's cancellation, and each caller stops waiting when its own ctx
// is done while the transition still completes for the others.
func (l *Ledger) applyOnce(ctx context.Context, key string, apply func(ctx context.Context) (bool, error)) (bool, error) {
	detached := context.WithoutCancel(ctx)
	ch := l.transitions.DoChan(key, func() (any, error) {
		return apply(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
