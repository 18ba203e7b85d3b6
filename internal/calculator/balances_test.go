package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/models"
)

type line struct {
	debtor string
	amount string
}

func expense(id int64, payer, amount string, resolved bool, lines ...line) models.ExpenseWithDebts {
	e := models.ExpenseWithDebts{
		Expense: models.Expense{
			ID:        id,
			GroupID:   "g1",
			PayerID:   payer,
			Amount:    d(amount),
			Resolved:  resolved,
			SplitMode: models.SplitEqual,
		},
	}
	for _, l := range lines {
		e.Debts = append(e.Debts, models.DebtLine{ExpenseID: id, DebtorID: l.debtor, Amount: d(l.amount)})
	}
	return e
}

// sampleSnapshot: A paid 100 for B and C, B paid 90 for A, C and D, C paid 30 for themself only.
func sampleSnapshot() []models.ExpenseWithDebts {
	return []models.ExpenseWithDebts{
		expense(1, "A", "100", false, line{"B", "50"}, line{"C", "50"}),
		expense(2, "B", "90", true, line{"A", "30"}, line{"C", "30"}, line{"D", "30"}),
		expense(3, "C", "30", false, line{"C", "30"}),
		expense(4, "D", "40", false, line{"D", "20"}, line{"A", "20"}),
	}
}

func TestPairBalance_Scenario(t *testing.T) {
	snapshot := []models.ExpenseWithDebts{
		expense(1, "A", "100", false, line{"B", "50"}, line{"C", "50"}),
	}

	pb := PairBalance(snapshot, "A", "B")
	assert.True(t, pb.Net.Equal(d("50")), "got %s", pb.Net)
	assert.Len(t, pb.Involved, 1)
	assert.False(t, pb.Resolved)

	assert.True(t, PairBalance(snapshot, "B", "A").Net.Equal(d("-50")))
}

func TestPairBalance_Symmetry(t *testing.T) {
	snapshot := sampleSnapshot()
	users := []string{"A", "B", "C", "D", "E"}
	for _, a := range users {
		for _, b := range users {
			ab := PairBalance(snapshot, a, b).Net
			ba := PairBalance(snapshot, b, a).Net
			assert.True(t, ab.Equal(ba.Neg()), "%s/%s: %s vs %s", a, b, ab, ba)
		}
	}
}

func TestPairBalance_OnlyCouplingExpenses(t *testing.T) {
	snapshot := sampleSnapshot()

	// A paid #1 (B owes 50), B paid #2 (A owes 30).
	ab := PairBalance(snapshot, "A", "B")
	assert.True(t, ab.Net.Equal(d("20")), "got %s", ab.Net)
	require.Len(t, ab.Involved, 2)
	assert.Equal(t, int64(1), ab.Involved[0].ID)
	assert.Equal(t, int64(2), ab.Involved[1].ID)
	assert.False(t, ab.Resolved, "#1 is still pending")

	// Only #2 couples B and D, and it is resolved.
	bd := PairBalance(snapshot, "B", "D")
	assert.True(t, bd.Net.Equal(d("30")))
	assert.True(t, bd.Resolved)

	// Nothing couples C and D.
	cd := PairBalance(snapshot, "C", "D")
	assert.True(t, cd.Net.IsZero())
	assert.Empty(t, cd.Involved)
	assert.True(t, cd.Resolved, "vacuously resolved")
}

func TestPairBalance_SelfIsEmpty(t *testing.T) {
	pb := PairBalance(sampleSnapshot(), "C", "C")
	assert.True(t, pb.Net.IsZero())
	assert.Empty(t, pb.Involved)
}

func TestNetBalance(t *testing.T) {
	snapshot := sampleSnapshot()

	tests := []struct {
		user         string
		policy       Involvement
		wantNet      string
		wantInvolved []int64
	}{
		{"A", InvolvementAny, "50", []int64{1, 2, 4}},        // +100 -30 -20
		{"B", InvolvementAny, "40", []int64{1, 2}},           // -50 +90
		{"C", InvolvementAny, "-80", []int64{1, 2, 3}},       // -50 -30, self-paid #3 adds nothing
		{"C", InvolvementCounterparty, "-80", []int64{1, 2}}, // #3 has no other debtor
		{"D", InvolvementAny, "-10", []int64{2, 4}},          // -30 +20
		{"E", InvolvementAny, "0", nil},
	}
	for _, tt := range tests {
		t.Run(tt.user+"/"+policyName(tt.policy), func(t *testing.T) {
			bal := NetBalance(snapshot, tt.user, tt.policy)
			assert.True(t, bal.Net.Equal(d(tt.wantNet)), "net = %s, want %s", bal.Net, tt.wantNet)
			assert.Equal(t, tt.wantInvolved, bal.Involved)
		})
	}
}

func TestNetBalance_SelfPaidInterpretations(t *testing.T) {
	snapshot := []models.ExpenseWithDebts{
		expense(7, "A", "25", false, line{"A", "25"}),
	}

	payerOrDebtor := NetBalance(snapshot, "A", InvolvementAny)
	assert.True(t, payerOrDebtor.Net.IsZero())
	assert.Equal(t, []int64{7}, payerOrDebtor.Involved)

	counterparty := NetBalance(snapshot, "A", InvolvementCounterparty)
	assert.True(t, counterparty.Net.IsZero())
	assert.Empty(t, counterparty.Involved)
}

func TestNetBalance_MatchesGroupPositions(t *testing.T) {
	snapshot := sampleSnapshot()
	total := decimal.Zero
	for _, p := range GroupPositions(snapshot) {
		total = total.Add(p.Net)
		nb := NetBalance(snapshot, p.UserID, InvolvementAny)
		assert.True(t, nb.Net.Equal(p.Net), "%s: net %s vs position %s", p.UserID, nb.Net, p.Net)
	}
	assert.True(t, total.IsZero(), "positions must net to zero, got %s", total)
}

func TestReductionsAreRepeatable(t *testing.T) {
	snapshot := sampleSnapshot()
	first := NetBalance(snapshot, "A", InvolvementAny)
	firstPair := PairBalance(snapshot, "A", "B")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, NetBalance(snapshot, "A", InvolvementAny))
		assert.Equal(t, firstPair, PairBalance(snapshot, "A", "B"))
	}
	assert.Equal(t, sampleSnapshot(), snapshot, "reductions must not mutate the snapshot")
}

func TestMemberBalances(t *testing.T) {
	members := []models.User{
		{ID: "A", DisplayName: "Alice"},
		{ID: "B", DisplayName: "Bob"},
		{ID: "C"},
		{ID: "D", DisplayName: "Dan"},
	}

	got := MemberBalances(sampleSnapshot(), members, "A")
	require.Len(t, got, 3)

	assert.Equal(t, "B", got[0].Counterpart)
	assert.Equal(t, "Bob", got[0].Name)
	assert.True(t, got[0].Net.Equal(d("20")))

	assert.Equal(t, "C", got[1].Name, "falls back to the user ID")
	assert.True(t, got[1].Net.Equal(d("50")))

	assert.Equal(t, "Dan", got[2].Name)
	assert.True(t, got[2].Net.Equal(d("-20")))
}

func TestGroupPositions(t *testing.T) {
	positions := GroupPositions(sampleSnapshot())
	require.Len(t, positions, 4)

	want := map[string][3]string{
		"A": {"100", "50", "50"},
		"B": {"90", "50", "40"},
		"C": {"30", "110", "-80"},
		"D": {"40", "50", "-10"},
	}
	for i, id := range []string{"A", "B", "C", "D"} {
		p := positions[i]
		assert.Equal(t, id, p.UserID)
		assert.True(t, p.Paid.Equal(d(want[id][0])), "%s paid %s", id, p.Paid)
		assert.True(t, p.Owed.Equal(d(want[id][1])), "%s owed %s", id, p.Owed)
		assert.True(t, p.Net.Equal(d(want[id][2])), "%s net %s", id, p.Net)
	}
}

func TestSuggestTransfers(t *testing.T) {
	transfers := SuggestTransfers(GroupPositions(sampleSnapshot()))

	net := map[string]decimal.Decimal{}
	for _, tr := range transfers {
		assert.True(t, tr.Amount.IsPositive())
		net[tr.From] = net[tr.From].Add(tr.Amount)
		net[tr.To] = net[tr.To].Sub(tr.Amount)
	}
	for _, p := range GroupPositions(sampleSnapshot()) {
		assert.True(t, net[p.UserID].Add(p.Net).IsZero(), "%s not cleared", p.UserID)
	}
	assert.LessOrEqual(t, len(transfers), 3)

	assert.Empty(t, SuggestTransfers(nil))
}

func TestVerifyExpense(t *testing.T) {
	ok := expense(1, "A", "100", false, line{"B", "50"}, line{"C", "50"})
	require.NoError(t, VerifyExpense(&ok))

	bad := expense(2, "A", "100", false, line{"B", "50"})
	err := VerifyExpense(&bad)
	require.Error(t, err)
	assert.True(t, models.IsInvariantViolation(err))

	err = VerifySnapshot([]models.ExpenseWithDebts{ok, bad})
	var iv *models.InvariantViolationError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, int64(2), iv.ExpenseID)
}

func policyName(p Involvement) string {
	if p == InvolvementCounterparty {
		return "counterparty"
	}
	return "any"
}
