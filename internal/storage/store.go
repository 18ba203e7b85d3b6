// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/groupledger/internal/models"
)

// ExpenseStore persists expenses together with their debt lines.
// Every method that touches both tables does so atomically.
type ExpenseStore interface {
	// CreateExpenseWithDebts inserts the expense and all of its debt lines in one
	// transaction and returns the assigned expense ID. expense.ID and the
	// ExpenseID of every line are populated.
	CreateExpenseWithDebts(ctx context.Context, expense *models.Expense, debts []models.DebtLine) (int64, error)

	// GetExpense returns one expense with its debt lines.
	GetExpense(ctx context.Context, expenseID int64) (*models.ExpenseWithDebts, error)

	// DeleteExpenseCascade removes the debt lines and then the expense in one transaction.
	DeleteExpenseCascade(ctx context.Context, expenseID int64) error

	// SetExpenseResolved marks the expense resolved. changed is false if it already was.
	SetExpenseResolved(ctx context.Context, expenseID int64) (changed bool, err error)

	// SetDebtLineSettled marks one debtor's line settled. changed is false if it already was.
	SetDebtLineSettled(ctx context.Context, expenseID int64, debtorID string) (changed bool, err error)

	// ListExpensesForGroup returns a consistent snapshot of the group's expenses, ordered by ID.
	ListExpensesForGroup(ctx context.Context, groupID string) ([]models.ExpenseWithDebts, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group. group.ID and group.CreatedAt are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with members sorted by user ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMember adds userID to the group. Adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RemoveGroupMember removes userID from the group.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// ListGroupsForUser returns the groups userID belongs to, ordered by name.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Store defines the full storage surface.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	ExpenseStore
	GroupStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
