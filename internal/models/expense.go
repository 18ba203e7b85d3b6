package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SplitMode selects how an expense amount is divided among its debtors.
type SplitMode int

const (
	// SplitEqual divides the amount evenly.
	SplitEqual SplitMode = iota + 1
	// SplitPercentage divides the amount by per-debtor percentages summing to 100.
	SplitPercentage
)

// String returns the wire name of the mode.
func (m SplitMode) String() string {
	switch m {
	case SplitEqual:
		return "equal"
	case SplitPercentage:
		return "percentage"
	default:
		return fmt.Sprintf("SplitMode(%d)", int(m))
	}
}

// ParseSplitMode converts a wire name into a SplitMode.
func ParseSplitMode(s string) (SplitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equal":
		return SplitEqual, nil
	case "percentage", "percent":
		return SplitPercentage, nil
	default:
		return 0, &ValidationError{Field: "split_mode", Reason: fmt.Sprintf("unknown split mode %q", s)}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m SplitMode) MarshalText() ([]byte, error) {
	if m != SplitEqual && m != SplitPercentage {
		return nil, fmt.Errorf("invalid split mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SplitMode) UnmarshalText(b []byte) error {
	parsed, err := ParseSplitMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Expense is a payment made by PayerID on behalf of the group.
type Expense struct {
	// ID is assigned by the store, monotonically increasing.
	ID int64

	Title   string
	GroupID string

	// PayerID is the user who paid the full amount upfront.
	PayerID string

	// CreatedByID is the authenticated user who recorded the expense.
	CreatedByID string

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal

	// Resolved marks the whole expense as settled. One-way.
	Resolved bool

	SplitMode SplitMode

	// Percentages holds the per-debtor percentages for SplitPercentage, nil otherwise.
	Percentages map[string]decimal.Decimal

	CreatedAt int64
}

// DebtLine is one debtor's share of one expense.
// (ExpenseID, DebtorID) is unique.
type DebtLine struct {
	ExpenseID int64
	DebtorID  string
	Amount    decimal.Decimal
	Settled   bool
}

// ExpenseWithDebts is an expense together with all of its debt lines.
// It is the unit of every balance snapshot.
type ExpenseWithDebts struct {
	Expense
	Debts []DebtLine
}

// Debt returns the line owed by debtorID, if any.
func (e *ExpenseWithDebts) Debt(debtorID string) (DebtLine, bool) {
	for _, d := range e.Debts {
		if d.DebtorID == debtorID {
			return d, true
		}
	}
	return DebtLine{}, false
}

// DebtSum returns the sum of all debt line amounts.
func (e *ExpenseWithDebts) DebtSum() decimal.Decimal {
	sum := decimal.Zero
	for _, d := range e.Debts {
		sum = sum.Add(d.Amount)
	}
	return sum
}
