package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the stable identity referenced by group membership and as payer/debtor.
	ID string

	// DisplayName is shown in balance listings.
	DisplayName string

	// Email is the user's email address (unique). Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a user with timestamps set to now.
// The email doubles as the user ID when no explicit ID is chosen.
func NewUser(id, email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	if id == "" {
		id = email
	}
	return &User{
		ID:           id,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Name returns the display name, falling back to the ID.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}
