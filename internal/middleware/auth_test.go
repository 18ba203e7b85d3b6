package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/auth"
)

// echoUser returns the user ID the interceptor put on the context.
func echoUser(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
	return connect.NewResponse(&struct{ UserID string }{GetUserID(ctx)}), nil
}

func callWith(t *testing.T, interceptor connect.UnaryInterceptorFunc, header string) (string, error) {
	t.Helper()
	req := connect.NewRequest(&struct{}{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	resp, err := interceptor(echoUser)(context.Background(), req)
	if err != nil {
		return "", err
	}
	return resp.Any().(*struct{ UserID string }).UserID, nil
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager(strings.Repeat("x", 32), time.Hour)
	token, err := jwtManager.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantUser string
		wantCode connect.Code
	}{
		{name: "valid token", header: "Bearer " + token, wantUser: "alice"},
		{name: "lowercase scheme", header: "bearer " + token, wantUser: "alice"},
		{name: "missing header", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := callWith(t, RequireAuth(jwtManager), tt.header)
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("code = %v, want %v (err %v)", connect.CodeOf(err), tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user != tt.wantUser {
				t.Errorf("user = %q, want %q", user, tt.wantUser)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager(strings.Repeat("x", 32), time.Hour)
	token, err := jwtManager.Issue("bob")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	user, err := callWith(t, OptionalAuth(jwtManager), "Bearer "+token)
	if err != nil || user != "bob" {
		t.Errorf("with token: user = %q, err = %v", user, err)
	}

	user, err = callWith(t, OptionalAuth(jwtManager), "Bearer garbage")
	if err != nil || user != "" {
		t.Errorf("bad token: user = %q, err = %v", user, err)
	}
}

func TestContextIdentity(t *testing.T) {
	id := ContextIdentity{}

	if _, err := id.CurrentUser(context.Background()); !errors.Is(err, auth.ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}

	user, err := id.CurrentUser(WithUserID(context.Background(), "carol"))
	if err != nil || user != "carol" {
		t.Errorf("user = %q, err = %v", user, err)
	}
}
