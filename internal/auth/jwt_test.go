package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager_IssueAndIdentify(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, err := m.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := m.Identify(token)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if userID != "alice" {
		t.Errorf("Identify() = %q, want alice", userID)
	}

	other, err := m.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if other == token {
		t.Error("two tokens for the same user should carry distinct IDs")
	}
}

func TestJWTManager_IssueRequiresSubject(t *testing.T) {
	if _, err := NewJWTManager(testSecret, time.Hour).Issue(""); err == nil {
		t.Error("Issue(\"\") should fail")
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	sign := func(method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	otherKey, err := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour).Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	expired, err := NewJWTManager(testSecret, -time.Minute).Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	foreign := valid()
	foreign.Issuer = "someone-else"
	noSubject := valid()
	noSubject.Subject = ""
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", otherKey},
		{"expired", expired},
		{"none algorithm", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid())},
		{"other hmac algorithm", sign(jwt.SigningMethodHS512, []byte(testSecret), valid())},
		{"foreign issuer", sign(jwt.SigningMethodHS256, []byte(testSecret), foreign)},
		{"missing subject", sign(jwt.SigningMethodHS256, []byte(testSecret), noSubject)},
		{"missing expiry", sign(jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Identify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Identify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
