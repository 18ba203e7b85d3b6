package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrForbidden is returned when the caller may not act on a group or expense.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed input. Nothing is persisted when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing expense, debt line, group or user.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// InvariantViolationError reports an expense whose debt lines do not add up to its amount.
type InvariantViolationError struct {
	ExpenseID int64
	Amount    decimal.Decimal
	Sum       decimal.Decimal
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: expense %d amount %s but debt lines sum to %s",
		e.ExpenseID, e.Amount, e.Sum)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvariantViolation reports whether err is an *InvariantViolationError.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolationError
	return errors.As(err, &iv)
}
