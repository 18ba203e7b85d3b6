package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/pkg/rpc"
)

// Deps are the collaborators the RPC handlers are built from.
type Deps struct {
	Ledger        *ledger.Ledger
	Users         storage.UserStore
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Register mounts the Ledger, Group and Auth services on mux. Ledger and group
// procedures require a bearer token; auth procedures accept one optionally.
func Register(mux *http.ServeMux, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logging := middleware.LoggingInterceptor(deps.Metrics)
	protected := connect.WithInterceptors(logging, middleware.RequireAuth(deps.JWT))
	public := connect.WithInterceptors(logging, middleware.OptionalAuth(deps.JWT))

	mux.Handle(rpc.NewLedgerServiceHandler(NewLedgerService(deps.Ledger), protected))
	mux.Handle(rpc.NewGroupServiceHandler(NewGroupService(deps.Ledger), protected))
	mux.Handle(rpc.NewAuthServiceHandler(
		NewAuthService(deps.Authenticator, deps.Users, deps.JWT, logger),
		public,
	))
}
