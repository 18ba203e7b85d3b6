package ledger

import (
	"context"
	"time"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
)

// GroupSummary is the group-wide view: every member's paid/owed totals and a
// set of transfers that would clear them.
type GroupSummary struct {
	Group     *models.Group
	Positions []calculator.MemberPosition
	Transfers []calculator.Transfer
	Expenses  int
}

// NetBalance returns userID's net position across the group. An empty userID
// means the caller.
func (l *Ledger) NetBalance(ctx context.Context, groupID, userID string, policy calculator.Involvement) (calculator.UserBalance, error) {
	defer l.observe("net", time.Now())

	caller, _, err := l.memberGroup(ctx, groupID)
	if err != nil {
		return calculator.UserBalance{}, err
	}
	if userID == "" {
		userID = caller
	}

	snapshot, err := l.snapshot(ctx, groupID)
	if err != nil {
		return calculator.UserBalance{}, err
	}
	return calculator.NetBalance(snapshot, userID, policy), nil
}

// PairBalance returns what counterpart owes subject within the group
// (negative when subject owes). An empty subject means the caller.
func (l *Ledger) PairBalance(ctx context.Context, groupID, subject, counterpart string) (calculator.PairwiseBalance, error) {
	defer l.observe("pair", time.Now())

	caller, _, err := l.memberGroup(ctx, groupID)
	if err != nil {
		return calculator.PairwiseBalance{}, err
	}
	if subject == "" {
		subject = caller
	}
	if counterpart == "" {
		return calculator.PairwiseBalance{}, l.invalid(&models.ValidationError{Field: "counterpart_id", Reason: "required"})
	}

	snapshot, err := l.snapshot(ctx, groupID)
	if err != nil {
		return calculator.PairwiseBalance{}, err
	}
	return calculator.PairBalance(snapshot, subject, counterpart), nil
}

// MemberBalances returns the caller's pairwise balance with every other member,
// in member ID order, named by display name.
func (l *Ledger) MemberBalances(ctx context.Context, groupID string) ([]calculator.PairwiseBalance, error) {
	defer l.observe("members", time.Now())

	caller, group, err := l.memberGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	users, err := l.store.GetUsersByIDs(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	members := make([]models.User, 0, len(group.Members))
	for _, id := range group.Members {
		if u, ok := users[id]; ok {
			members = append(members, *u)
			continue
		}
		members = append(members, models.User{ID: id})
	}

	snapshot, err := l.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.MemberBalances(snapshot, members, caller), nil
}

// GroupSummary reduces the whole group into member positions and suggested transfers.
func (l *Ledger) GroupSummary(ctx context.Context, groupID string) (*GroupSummary, error) {
	defer l.observe("group", time.Now())

	_, group, err := l.memberGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	snapshot, err := l.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	positions := calculator.GroupPositions(snapshot)
	return &GroupSummary{
		Group:     group,
		Positions: positions,
		Transfers: calculator.SuggestTransfers(positions),
		Expenses:  len(snapshot),
	}, nil
}
