package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
)

// Involvement decides which expenses count as involving a user in NetBalance.
type Involvement int

const (
	// InvolvementAny counts every expense the user paid for or owes on.
	InvolvementAny Involvement = iota
	// InvolvementCounterparty skips expenses the user paid where nobody else owes anything.
	InvolvementCounterparty
)

// UserBalance is one user's net position across a group's expenses.
type UserBalance struct {
	UserID string
	// Net is positive when the group owes the user, negative when the user owes.
	Net decimal.Decimal
	// Involved lists the IDs of the expenses that contributed, in snapshot order.
	Involved []int64
}

// PairwiseBalance is the net position between a subject and one counterpart.
type PairwiseBalance struct {
	Subject     string
	Counterpart string
	Name        string
	// Involved are the expenses that directly couple the two users.
	Involved []models.ExpenseWithDebts
	// Resolved is true when every involved expense is resolved (or there are none).
	Resolved bool
	// Net is positive when the counterpart owes the subject.
	Net decimal.Decimal
}

// MemberPosition is a member's paid/owed totals across a group.
type MemberPosition struct {
	UserID string
	Paid   decimal.Decimal
	Owed   decimal.Decimal
	Net    decimal.Decimal // Positive = owed money, Negative = owes money
}

// Transfer is a suggested payment that clears part of the group's debts.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// NetBalance reduces a group snapshot into userID's net position.
//
// As payer the user is owed every other debtor's line; as debtor the user owes
// their own line. Expenses the user has no part in are skipped entirely.
func NetBalance(snapshot []models.ExpenseWithDebts, userID string, policy Involvement) UserBalance {
	bal := UserBalance{UserID: userID, Net: decimal.Zero}

	for i := range snapshot {
		exp := &snapshot[i]

		if exp.PayerID == userID {
			owed := decimal.Zero
			others := 0
			for _, d := range exp.Debts {
				if d.DebtorID == userID {
					continue
				}
				owed = owed.Add(d.Amount)
				others++
			}
			if others == 0 && policy == InvolvementCounterparty {
				continue
			}
			bal.Net = bal.Net.Add(owed)
			bal.Involved = append(bal.Involved, exp.ID)
			continue
		}

		if d, ok := exp.Debt(userID); ok {
			bal.Net = bal.Net.Sub(d.Amount)
			bal.Involved = append(bal.Involved, exp.ID)
		}
	}

	return bal
}

// PairBalance computes what counterpart owes subject (negative: what subject
// owes counterpart), looking only at expenses one of them paid and the other owes on.
func PairBalance(snapshot []models.ExpenseWithDebts, subject, counterpart string) PairwiseBalance {
	pb := PairwiseBalance{
		Subject:     subject,
		Counterpart: counterpart,
		Name:        counterpart,
		Resolved:    true,
		Net:         decimal.Zero,
	}
	if subject == counterpart {
		return pb
	}

	for i := range snapshot {
		exp := snapshot[i]

		switch exp.PayerID {
		case subject:
			d, ok := exp.Debt(counterpart)
			if !ok {
				continue
			}
			pb.Net = pb.Net.Add(d.Amount)
		case counterpart:
			d, ok := exp.Debt(subject)
			if !ok {
				continue
			}
			pb.Net = pb.Net.Sub(d.Amount)
		default:
			continue
		}

		pb.Involved = append(pb.Involved, exp)
		pb.Resolved = pb.Resolved && exp.Resolved
	}

	return pb
}

// MemberBalances computes PairBalance between subject and every other member,
// in member order.
func MemberBalances(snapshot []models.ExpenseWithDebts, members []models.User, subject string) []PairwiseBalance {
	out := make([]PairwiseBalance, 0, len(members))
	for _, m := range members {
		if m.ID == subject {
			continue
		}
		pb := PairBalance(snapshot, subject, m.ID)
		pb.Name = m.Name()
		out = append(out, pb)
	}
	return out
}

// GroupPositions aggregates who paid what and who owes what across a snapshot.
// The payer is credited with the full amount and every debtor, the payer
// included, is debited with their line. Results are sorted by user ID.
func GroupPositions(snapshot []models.ExpenseWithDebts) []MemberPosition {
	positions := make(map[string]*MemberPosition)
	get := func(id string) *MemberPosition {
		p, ok := positions[id]
		if !ok {
			p = &MemberPosition{UserID: id, Paid: decimal.Zero, Owed: decimal.Zero}
			positions[id] = p
		}
		return p
	}

	for i := range snapshot {
		exp := &snapshot[i]
		payer := get(exp.PayerID)
		payer.Paid = payer.Paid.Add(exp.Amount)
		for _, d := range exp.Debts {
			p := get(d.DebtorID)
			p.Owed = p.Owed.Add(d.Amount)
		}
	}

	out := make([]MemberPosition, 0, len(positions))
	for _, p := range positions {
		p.Net = p.Paid.Sub(p.Owed)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// SuggestTransfers matches debtors with creditors greedily, largest amounts
// first, producing at most len(positions)-1 transfers that zero every net position.
func SuggestTransfers(positions []MemberPosition) []Transfer {
	type entry struct {
		id     string
		amount decimal.Decimal
	}
	var creditors, debtors []entry
	for _, p := range positions {
		switch {
		case p.Net.IsPositive():
			creditors = append(creditors, entry{p.UserID, p.Net})
		case p.Net.IsNegative():
			debtors = append(debtors, entry{p.UserID, p.Net.Neg()})
		}
	}
	byAmount := func(s []entry) func(i, j int) bool {
		return func(i, j int) bool {
			if c := s[i].amount.Cmp(s[j].amount); c != 0 {
				return c > 0
			}
			return s[i].id < s[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.IsPositive() {
			transfers = append(transfers, Transfer{From: debtors[i].id, To: creditors[j].id, Amount: amount})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if !debtors[i].amount.IsPositive() {
			i++
		}
		if !creditors[j].amount.IsPositive() {
			j++
		}
	}
	return transfers
}

// VerifyExpense checks that the debt lines of exp add up to its amount exactly.
func VerifyExpense(exp *models.ExpenseWithDebts) error {
	sum := exp.DebtSum()
	if !sum.Equal(exp.Amount) {
		return &models.InvariantViolationError{ExpenseID: exp.ID, Amount: exp.Amount, Sum: sum}
	}
	return nil
}

// VerifySnapshot runs VerifyExpense over every expense and returns the first violation.
func VerifySnapshot(snapshot []models.ExpenseWithDebts) error {
	for i := range snapshot {
		if err := VerifyExpense(&snapshot[i]); err != nil {
			return err
		}
	}
	return nil
}
