package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/mmynk/groupledger/internal/models"
)

// SetExpenseResolved flips an expense to resolved. The conditional update makes
// a repeated call a no-op.
func (s *SQLiteStore) SetExpenseResolved(ctx context.Context, expenseID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET resolved = 1 WHERE id = ? AND resolved = 0", expenseID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	// Nothing changed: either already resolved or missing.
	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM expenses WHERE id = ?", expenseID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, &models.NotFoundError{Entity: "expense", Key: strconv.FormatInt(expenseID, 10)}
	}
	if err != nil {
		return false, fmt.Errorf("failed to check expense existence: %w", err)
	}
	return false, nil
}

// SetDebtLineSettled flips one debtor's line to settled, independent of the
// expense's own status.
func (s *SQLiteStore) SetDebtLineSettled(ctx context.Context, expenseID int64, debtorID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_debts SET settled = 1 WHERE expense_id = ? AND debtor_id = ? AND settled = 0",
		expenseID, debtorID)
	if err != nil {
		return false, fmt.Errorf("failed to settle debt line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		"SELECT 1 FROM expense_debts WHERE expense_id = ? AND debtor_id = ?", expenseID, debtorID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, &models.NotFoundError{
			Entity: "debt line",
			Key:    fmt.Sprintf("%d/%s", expenseID, debtorID),
		}
	}
	if err != nil {
		return false, fmt.Errorf("failed to check debt line existence: %w", err)
	}
	return false, nil
}
