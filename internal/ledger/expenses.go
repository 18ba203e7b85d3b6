package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/notify"
)

const maxTitleLength = 200

// NewExpense is the input to CreateExpense.
type NewExpense struct {
	GroupID string
	Title   string
	// PayerID defaults to the caller when empty.
	PayerID string
	Amount  decimal.Decimal
	Mode    models.SplitMode
	// Debtors in split order. The payer may be listed to carry a share.
	Debtors []string
	// Percentages is required for SplitPercentage and must be empty otherwise.
	Percentages map[string]decimal.Decimal
}

// CreateExpense splits the amount among the debtors and persists the expense
// with one unsettled debt line per debtor, atomically. Nothing is written and
// no notification fires when validation fails.
func (l *Ledger) CreateExpense(ctx context.Context, in NewExpense) (*models.ExpenseWithDebts, error) {
	userID, group, err := l.memberGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, l.invalid(&models.ValidationError{Field: "title", Reason: "required"})
	case len(title) > maxTitleLength:
		return nil, l.invalid(&models.ValidationError{Field: "title", Reason: fmt.Sprintf("longer than %d characters", maxTitleLength)})
	}

	payerID := strings.TrimSpace(in.PayerID)
	if payerID == "" {
		payerID = userID
	}
	if !group.HasMember(payerID) {
		return nil, l.invalid(&models.ValidationError{Field: "payer_id", Reason: fmt.Sprintf("%q is not a member of the group", payerID)})
	}

	if in.Mode == models.SplitEqual && len(in.Percentages) > 0 {
		return nil, l.invalid(&models.ValidationError{Field: "percentages", Reason: "only allowed in percentage mode"})
	}

	shares, err := l.splitter.Split(in.Amount, in.Mode, in.Debtors, in.Percentages)
	if err != nil {
		return nil, l.invalid(err)
	}

	for _, s := range shares {
		if !group.HasMember(s.DebtorID) {
			return nil, l.invalid(&models.ValidationError{Field: "debtors", Reason: fmt.Sprintf("%q is not a member of the group", s.DebtorID)})
		}
	}

	exp := &models.ExpenseWithDebts{
		Expense: models.Expense{
			Title:       title,
			GroupID:     group.ID,
			PayerID:     payerID,
			CreatedByID: userID,
			Amount:      in.Amount,
			SplitMode:   in.Mode,
		},
		Debts: make([]models.DebtLine, len(shares)),
	}
	if in.Mode == models.SplitPercentage {
		exp.Percentages = in.Percentages
	}
	for i, s := range shares {
		exp.Debts[i] = models.DebtLine{DebtorID: s.DebtorID, Amount: s.Amount}
	}

	if err := calculator.VerifyExpense(exp); err != nil {
		slog.Error("Split does not reconcile", "group_id", group.ID, "amount", in.Amount, "error", err)
		return nil, err
	}

	if _, err := l.store.CreateExpenseWithDebts(ctx, &exp.Expense, exp.Debts); err != nil {
		return nil, err
	}

	slog.Info("Expense created",
		"expense_id", exp.ID,
		"group_id", group.ID,
		"payer_id", payerID,
		"amount", exp.Amount.String(),
		"mode", exp.SplitMode,
		"debtors", len(exp.Debts),
	)
	if l.metrics != nil {
		l.metrics.ExpensesCreated.WithLabelValues(exp.SplitMode.String()).Inc()
	}
	l.notify(ctx, group.ID, notify.ExpenseCreated, exp.ID, userID)

	return exp, nil
}

// GetExpense returns one expense with its debt lines.
func (l *Ledger) GetExpense(ctx context.Context, expenseID int64) (*models.ExpenseWithDebts, error) {
	exp, _, err := l.memberExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := calculator.VerifyExpense(exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// ListExpenses returns the group's expenses ordered by ID.
func (l *Ledger) ListExpenses(ctx context.Context, groupID string) ([]models.ExpenseWithDebts, error) {
	if _, _, err := l.memberGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.snapshot(ctx, groupID)
}

// DeleteExpense removes the expense and all of its debt lines in one transaction.
// Deleting a missing expense fails with *models.NotFoundError.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID int64) error {
	exp, userID, err := l.memberExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	if err := l.store.DeleteExpenseCascade(ctx, expenseID); err != nil {
		return err
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", exp.GroupID, "user_id", userID)
	if l.metrics != nil {
		l.metrics.ExpensesDeleted.Inc()
	}
	l.notify(ctx, exp.GroupID, notify.ExpenseDeleted, expenseID, userID)
	return nil
}

// memberExpense loads an expense and checks that the caller belongs to its group.
func (l *Ledger) memberExpense(ctx context.Context, expenseID int64) (*models.ExpenseWithDebts, string, error) {
	userID, err := l.caller(ctx)
	if err != nil {
		return nil, "", err
	}
	exp, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, "", err
	}
	group, err := l.store.GetGroup(ctx, exp.GroupID)
	if err != nil {
		return nil, "", err
	}
	if !group.HasMember(userID) {
		slog.Warn("Caller is not a group member", "user_id", userID, "group_id", exp.GroupID, "expense_id", expenseID)
		return nil, "", models.ErrForbidden
	}
	return exp, userID, nil
}
