package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	t.Run("register", func(t *testing.T) {
		user, err := a.Register(ctx, "alice", "Alice@Example.com", "Alice", "correct horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID != "alice" || user.Email != "alice@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}
		if user.PasswordHash == "correct horse" {
			t.Error("password stored in clear text")
		}
	})

	t.Run("email doubles as id", func(t *testing.T) {
		user, err := a.Register(ctx, "", "bob@example.com", "Bob", "hunter2hunter2")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID != "bob@example.com" {
			t.Errorf("ID = %q, want bob@example.com", user.ID)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := a.Register(ctx, "carol", "carol@example.com", "Carol", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("err = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, "alice2", "alice@example.com", "Alice", "correct horse")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("err = %v, want ErrEmailExists", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := a.Register(ctx, "alice", "other@example.com", "Other", "correct horse")
		if !errors.Is(err, ErrUserExists) {
			t.Errorf("err = %v, want ErrUserExists", err)
		}
	})

	t.Run("authenticate", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "alice@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.ID != "alice" {
			t.Errorf("ID = %q, want alice", user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "alice@example.com", "wrong horse")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "nobody@example.com", "correct horse")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}
