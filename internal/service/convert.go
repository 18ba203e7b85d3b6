package service

import (
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/pkg/rpc"
)

func toRPCExpense(e *models.ExpenseWithDebts) *rpc.Expense {
	debts := make([]rpc.DebtLine, len(e.Debts))
	for i, d := range e.Debts {
		debts[i] = rpc.DebtLine{DebtorID: d.DebtorID, Amount: d.Amount, Settled: d.Settled}
	}
	return &rpc.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Title:       e.Title,
		PayerID:     e.PayerID,
		CreatedByID: e.CreatedByID,
		Amount:      e.Amount,
		Resolved:    e.Resolved,
		SplitMode:   e.SplitMode.String(),
		Percentages: e.Percentages,
		Debts:       debts,
		CreatedAt:   e.CreatedAt,
	}
}

func toRPCExpenses(expenses []models.ExpenseWithDebts) []*rpc.Expense {
	out := make([]*rpc.Expense, len(expenses))
	for i := range expenses {
		out[i] = toRPCExpense(&expenses[i])
	}
	return out
}

func toRPCGroup(g *models.Group) *rpc.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &rpc.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func toRPCUser(u *models.User) *rpc.User {
	return &rpc.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toRPCMemberBalance(b calculator.PairwiseBalance) *rpc.MemberBalance {
	return &rpc.MemberBalance{
		UserID:           b.Counterpart,
		Name:             b.Name,
		Net:              b.Net,
		Resolved:         b.Resolved,
		InvolvedExpenses: toRPCExpenses(b.Involved),
	}
}

func parseInvolvement(s string) (calculator.Involvement, error) {
	switch s {
	case "", "any":
		return calculator.InvolvementAny, nil
	case "counterparty":
		return calculator.InvolvementCounterparty, nil
	default:
		return 0, &models.ValidationError{Field: "involvement", Reason: "must be \"any\" or \"counterparty\""}
	}
}
