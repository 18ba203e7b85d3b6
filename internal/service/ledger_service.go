package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/pkg/rpc"
)

var _ rpc.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService over the given ledger.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// CreateExpense splits and records a new expense.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount.String(),
		"split_mode", req.Msg.SplitMode,
		"debtors_count", len(req.Msg.Debtors),
	)

	mode, err := models.ParseSplitMode(req.Msg.SplitMode)
	if err != nil {
		return nil, toConnectError(err)
	}

	exp, err := s.ledger.CreateExpense(ctx, ledger.NewExpense{
		GroupID:     req.Msg.GroupID,
		Title:       req.Msg.Title,
		PayerID:     req.Msg.PayerID,
		Amount:      req.Msg.Amount,
		Mode:        mode,
		Debtors:     req.Msg.Debtors,
		Percentages: req.Msg.Percentages,
	})
	if err != nil {
		slog.Warn("CreateExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.CreateExpenseResponse{Expense: toRPCExpense(exp)}), nil
}

// GetExpense returns one expense with its debt lines.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[rpc.GetExpenseRequest]) (*connect.Response[rpc.GetExpenseResponse], error) {
	exp, err := s.ledger.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.GetExpenseResponse{Expense: toRPCExpense(exp)}), nil
}

// ListExpenses returns a group's expenses ordered by ID.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[rpc.ListExpensesRequest]) (*connect.Response[rpc.ListExpensesResponse], error) {
	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Debug("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(expenses))
	return connect.NewResponse(&rpc.ListExpensesResponse{Expenses: toRPCExpenses(expenses)}), nil
}

// DeleteExpense removes an expense and its debt lines.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[rpc.DeleteExpenseRequest]) (*connect.Response[rpc.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.DeleteExpenseResponse{}), nil
}

// ResolveExpense marks a whole expense resolved.
func (s *LedgerService) ResolveExpense(ctx context.Context, req *connect.Request[rpc.ResolveExpenseRequest]) (*connect.Response[rpc.ResolveExpenseResponse], error) {
	changed, err := s.ledger.ResolveExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.ResolveExpenseResponse{Changed: changed}), nil
}

// SettleDebt marks one debtor's line settled.
func (s *LedgerService) SettleDebt(ctx context.Context, req *connect.Request[rpc.SettleDebtRequest]) (*connect.Response[rpc.SettleDebtResponse], error) {
	changed, err := s.ledger.SettleDebt(ctx, req.Msg.ExpenseID, req.Msg.DebtorID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.SettleDebtResponse{Changed: changed}), nil
}

// GetNetBalance returns a user's net position in the group, or the two-party
// balance when a counterpart is given.
func (s *LedgerService) GetNetBalance(ctx context.Context, req *connect.Request[rpc.GetNetBalanceRequest]) (*connect.Response[rpc.GetNetBalanceResponse], error) {
	msg := req.Msg

	if msg.CounterpartID != "" {
		pair, err := s.ledger.PairBalance(ctx, msg.GroupID, msg.UserID, msg.CounterpartID)
		if err != nil {
			return nil, toConnectError(err)
		}
		ids := make([]int64, len(pair.Involved))
		for i, e := range pair.Involved {
			ids[i] = e.ID
		}
		return connect.NewResponse(&rpc.GetNetBalanceResponse{
			UserID:             pair.Subject,
			CounterpartID:      pair.Counterpart,
			Net:                pair.Net,
			InvolvedExpenseIDs: ids,
			Resolved:           pair.Resolved,
		}), nil
	}

	policy, err := parseInvolvement(msg.Involvement)
	if err != nil {
		return nil, toConnectError(err)
	}
	bal, err := s.ledger.NetBalance(ctx, msg.GroupID, msg.UserID, policy)
	if err != nil {
		return nil, toConnectError(err)
	}
	ids := bal.Involved
	if ids == nil {
		ids = []int64{}
	}
	return connect.NewResponse(&rpc.GetNetBalanceResponse{
		UserID:             bal.UserID,
		Net:                bal.Net,
		InvolvedExpenseIDs: ids,
	}), nil
}

// ListMemberBalances returns the caller's balance with every other group member.
func (s *LedgerService) ListMemberBalances(ctx context.Context, req *connect.Request[rpc.ListMemberBalancesRequest]) (*connect.Response[rpc.ListMemberBalancesResponse], error) {
	balances, err := s.ledger.MemberBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*rpc.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = toRPCMemberBalance(b)
	}
	return connect.NewResponse(&rpc.ListMemberBalancesResponse{Balances: out}), nil
}

// GetGroupSummary returns every member's position and suggested transfers.
func (s *LedgerService) GetGroupSummary(ctx context.Context, req *connect.Request[rpc.GetGroupSummaryRequest]) (*connect.Response[rpc.GetGroupSummaryResponse], error) {
	summary, err := s.ledger.GroupSummary(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &rpc.GetGroupSummaryResponse{
		Group:        toRPCGroup(summary.Group),
		Positions:    make([]*rpc.MemberPosition, len(summary.Positions)),
		Transfers:    make([]*rpc.Transfer, len(summary.Transfers)),
		ExpenseCount: summary.Expenses,
	}
	for i, p := range summary.Positions {
		resp.Positions[i] = &rpc.MemberPosition{UserID: p.UserID, Paid: p.Paid, Owed: p.Owed, Net: p.Net}
	}
	for i, t := range summary.Transfers {
		resp.Transfers[i] = &rpc.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return connect.NewResponse(resp), nil
}
