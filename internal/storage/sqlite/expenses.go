package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const expenseColumns = `id, group_id, title, payer_id, created_by_id, amount, resolved, split_mode, percentages, created_at`

// CreateExpenseWithDebts persists an expense and its debt lines atomically.
func (s *SQLiteStore) CreateExpenseWithDebts(ctx context.Context, expense *models.Expense, debts []models.DebtLine) (int64, error) {
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	var percentages any
	if len(expense.Percentages) > 0 {
		b, err := json.Marshal(expense.Percentages)
		if err != nil {
			return 0, fmt.Errorf("failed to encode percentages: %w", err)
		}
		percentages = string(b)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (group_id, title, payer_id, created_by_id, amount, resolved, split_mode, percentages, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.GroupID, expense.Title, expense.PayerID, expense.CreatedByID,
		expense.Amount.String(), expense.Resolved, expense.SplitMode.String(), percentages, expense.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read expense id: %w", err)
	}

	for i := range debts {
		debts[i].ExpenseID = id
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_debts (expense_id, debtor_id, position, amount, settled) VALUES (?, ?, ?, ?, ?)",
			id, debts[i].DebtorID, i, debts[i].Amount.String(), debts[i].Settled,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert debt line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	expense.ID = id
	return id, nil
}

// GetExpense retrieves an expense by ID together with its debt lines.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID int64) (*models.ExpenseWithDebts, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exp, err := scanExpense(tx.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "expense", Key: strconv.FormatInt(expenseID, 10)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	debts, err := queryDebts(ctx, tx,
		"SELECT expense_id, debtor_id, amount, settled FROM expense_debts WHERE expense_id = ? ORDER BY position",
		expenseID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &models.ExpenseWithDebts{Expense: *exp, Debts: debts}, nil
}

// ListExpensesForGroup reads all of a group's expenses and debt lines inside one transaction.
func (s *SQLiteStore) ListExpensesForGroup(ctx context.Context, groupID string) ([]models.ExpenseWithDebts, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY id", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.ExpenseWithDebts
	index := make(map[int64]int)
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		index[exp.ID] = len(expenses)
		expenses = append(expenses, models.ExpenseWithDebts{Expense: *exp})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	debts, err := queryDebts(ctx, tx,
		`SELECT d.expense_id, d.debtor_id, d.amount, d.settled
		 FROM expense_debts d JOIN expenses e ON e.id = d.expense_id
		 WHERE e.group_id = ? ORDER BY d.expense_id, d.position`,
		groupID)
	if err != nil {
		return nil, err
	}
	for _, d := range debts {
		i, ok := index[d.ExpenseID]
		if !ok {
			continue
		}
		expenses[i].Debts = append(expenses[i].Debts, d)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return expenses, nil
}

// DeleteExpenseCascade removes the debt lines and then the expense itself.
func (s *SQLiteStore) DeleteExpenseCascade(ctx context.Context, expenseID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_debts WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete debt lines: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return &models.NotFoundError{Entity: "expense", Key: strconv.FormatInt(expenseID, 10)}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		exp         models.Expense
		amount      string
		mode        string
		percentages sql.NullString
	)
	if err := row.Scan(&exp.ID, &exp.GroupID, &exp.Title, &exp.PayerID, &exp.CreatedByID,
		&amount, &exp.Resolved, &mode, &percentages, &exp.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if exp.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if exp.SplitMode, err = models.ParseSplitMode(mode); err != nil {
		return nil, err
	}
	if percentages.Valid && percentages.String != "" {
		if err := json.Unmarshal([]byte(percentages.String), &exp.Percentages); err != nil {
			return nil, fmt.Errorf("invalid percentages: %w", err)
		}
	}
	return &exp, nil
}

func queryDebts(ctx context.Context, q queryer, query string, args ...any) ([]models.DebtLine, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get debt lines: %w", err)
	}
	defer rows.Close()

	var debts []models.DebtLine
	for rows.Next() {
		var (
			line   models.DebtLine
			amount string
		)
		if err := rows.Scan(&line.ExpenseID, &line.DebtorID, &amount, &line.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan debt line: %w", err)
		}
		if line.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid debt amount %q: %w", amount, err)
		}
		debts = append(debts, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt lines: %w", err)
	}
	return debts, nil
}
