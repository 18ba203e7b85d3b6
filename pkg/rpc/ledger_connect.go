package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "groupledger.v1.LedgerService"

// Procedure paths, as used in HTTP routes and Spec().Procedure.
const (
	LedgerServiceCreateExpenseProcedure      = "/groupledger.v1.LedgerService/CreateExpense"
	LedgerServiceGetExpenseProcedure         = "/groupledger.v1.LedgerService/GetExpense"
	LedgerServiceListExpensesProcedure       = "/groupledger.v1.LedgerService/ListExpenses"
	LedgerServiceDeleteExpenseProcedure      = "/groupledger.v1.LedgerService/DeleteExpense"
	LedgerServiceResolveExpenseProcedure     = "/groupledger.v1.LedgerService/ResolveExpense"
	LedgerServiceSettleDebtProcedure         = "/groupledger.v1.LedgerService/SettleDebt"
	LedgerServiceGetNetBalanceProcedure      = "/groupledger.v1.LedgerService/GetNetBalance"
	LedgerServiceListMemberBalancesProcedure = "/groupledger.v1.LedgerService/ListMemberBalances"
	LedgerServiceGetGroupSummaryProcedure    = "/groupledger.v1.LedgerService/GetGroupSummary"
)

// LedgerServiceHandler records expenses, applies settlements and reports balances.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ResolveExpense(context.Context, *connect.Request[ResolveExpenseRequest]) (*connect.Response[ResolveExpenseResponse], error)
	SettleDebt(context.Context, *connect.Request[SettleDebtRequest]) (*connect.Response[SettleDebtResponse], error)
	GetNetBalance(context.Context, *connect.Request[GetNetBalanceRequest]) (*connect.Response[GetNetBalanceResponse], error)
	ListMemberBalances(context.Context, *connect.Request[ListMemberBalancesRequest]) (*connect.Response[ListMemberBalancesResponse], error)
	GetGroupSummary(context.Context, *connect.Request[GetGroupSummaryRequest]) (*connect.Response[GetGroupSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createExpenseHandler := connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	getExpenseHandler := connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...)
	listExpensesHandler := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	deleteExpenseHandler := connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	resolveExpenseHandler := connect.NewUnaryHandler(LedgerServiceResolveExpenseProcedure, svc.ResolveExpense, opts...)
	settleDebtHandler := connect.NewUnaryHandler(LedgerServiceSettleDebtProcedure, svc.SettleDebt, opts...)
	getNetBalanceHandler := connect.NewUnaryHandler(LedgerServiceGetNetBalanceProcedure, svc.GetNetBalance, opts...)
	listMemberBalancesHandler := connect.NewUnaryHandler(LedgerServiceListMemberBalancesProcedure, svc.ListMemberBalances, opts...)
	getGroupSummaryHandler := connect.NewUnaryHandler(LedgerServiceGetGroupSummaryProcedure, svc.GetGroupSummary, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceGetExpenseProcedure:
			getExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpensesHandler.ServeHTTP(w, r)
		case LedgerServiceDeleteExpenseProcedure:
			deleteExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceResolveExpenseProcedure:
			resolveExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceSettleDebtProcedure:
			settleDebtHandler.ServeHTTP(w, r)
		case LedgerServiceGetNetBalanceProcedure:
			getNetBalanceHandler.ServeHTTP(w, r)
		case LedgerServiceListMemberBalancesProcedure:
			listMemberBalancesHandler.ServeHTTP(w, r)
		case LedgerServiceGetGroupSummaryProcedure:
			getGroupSummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient struct {
	createExpense      *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	getExpense         *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses       *connect.Client[ListExpensesRequest, ListExpensesResponse]
	deleteExpense      *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	resolveExpense     *connect.Client[ResolveExpenseRequest, ResolveExpenseResponse]
	settleDebt         *connect.Client[SettleDebtRequest, SettleDebtResponse]
	getNetBalance      *connect.Client[GetNetBalanceRequest, GetNetBalanceResponse]
	listMemberBalances *connect.Client[ListMemberBalancesRequest, ListMemberBalancesResponse]
	getGroupSummary    *connect.Client[GetGroupSummaryRequest, GetGroupSummaryResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService. baseURL is the server
// root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		createExpense:      connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		getExpense:         connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		deleteExpense:      connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		resolveExpense:     connect.NewClient[ResolveExpenseRequest, ResolveExpenseResponse](httpClient, baseURL+LedgerServiceResolveExpenseProcedure, opts...),
		settleDebt:         connect.NewClient[SettleDebtRequest, SettleDebtResponse](httpClient, baseURL+LedgerServiceSettleDebtProcedure, opts...),
		getNetBalance:      connect.NewClient[GetNetBalanceRequest, GetNetBalanceResponse](httpClient, baseURL+LedgerServiceGetNetBalanceProcedure, opts...),
		listMemberBalances: connect.NewClient[ListMemberBalancesRequest, ListMemberBalancesResponse](httpClient, baseURL+LedgerServiceListMemberBalancesProcedure, opts...),
		getGroupSummary:    connect.NewClient[GetGroupSummaryRequest, GetGroupSummaryResponse](httpClient, baseURL+LedgerServiceGetGroupSummaryProcedure, opts...),
	}
}

// CreateExpense calls groupledger.v1.LedgerService.CreateExpense.
func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

// GetExpense calls groupledger.v1.LedgerService.GetExpense.
func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

// ListExpenses calls groupledger.v1.LedgerService.ListExpenses.
func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// DeleteExpense calls groupledger.v1.LedgerService.DeleteExpense.
func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

// ResolveExpense calls groupledger.v1.LedgerService.ResolveExpense.
func (c *LedgerServiceClient) ResolveExpense(ctx context.Context, req *connect.Request[ResolveExpenseRequest]) (*connect.Response[ResolveExpenseResponse], error) {
	return c.resolveExpense.CallUnary(ctx, req)
}

// SettleDebt calls groupledger.v1.LedgerService.SettleDebt.
func (c *LedgerServiceClient) SettleDebt(ctx context.Context, req *connect.Request[SettleDebtRequest]) (*connect.Response[SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}

// GetNetBalance calls groupledger.v1.LedgerService.GetNetBalance.
func (c *LedgerServiceClient) GetNetBalance(ctx context.Context, req *connect.Request[GetNetBalanceRequest]) (*connect.Response[GetNetBalanceResponse], error) {
	return c.getNetBalance.CallUnary(ctx, req)
}

// ListMemberBalances calls groupledger.v1.LedgerService.ListMemberBalances.
func (c *LedgerServiceClient) ListMemberBalances(ctx context.Context, req *connect.Request[ListMemberBalancesRequest]) (*connect.Response[ListMemberBalancesResponse], error) {
	return c.listMemberBalances.CallUnary(ctx, req)
}

// GetGroupSummary calls groupledger.v1.LedgerService.GetGroupSummary.
func (c *LedgerServiceClient) GetGroupSummary(ctx context.Context, req *connect.Request[GetGroupSummaryRequest]) (*connect.Response[GetGroupSummaryResponse], error) {
	return c.getGroupSummary.CallUnary(ctx, req)
}
