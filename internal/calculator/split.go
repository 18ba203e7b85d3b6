package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
)

// DefaultPlaces is the currency precision used when none is configured (cents).
const DefaultPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// Share is the amount one debtor owes toward an expense.
type Share struct {
	DebtorID string
	Amount   decimal.Decimal
}

// Splitter divides expense amounts at a fixed currency precision.
// The zero value splits in whole units.
type Splitter struct {
	places int32
}

// NewSplitter returns a Splitter whose smallest unit is 10^-places.
func NewSplitter(places int32) Splitter {
	if places < 0 {
		places = 0
	}
	return Splitter{places: places}
}

// Places returns the number of decimal places amounts are split to.
func (s Splitter) Places() int32 {
	return s.places
}

// Unit returns the smallest currency unit.
func (s Splitter) Unit() decimal.Decimal {
	return decimal.New(1, -s.places)
}

// Split computes each debtor's share of amount.
//
// Shares are truncated to the splitter's precision and the leftover units are
// handed out one at a time, largest truncated fraction first, ties going to the
// later debtor. The shares always sum to amount exactly; in equal mode no two
// shares differ by more than one unit.
//
// The result keeps the order of debtors.
func (s Splitter) Split(amount decimal.Decimal, mode models.SplitMode, debtors []string, percentages map[string]decimal.Decimal) ([]Share, error) {
	if err := s.validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateDebtors(debtors); err != nil {
		return nil, err
	}

	var weights []decimal.Decimal
	var total decimal.Decimal

	switch mode {
	case models.SplitEqual:
		weights = make([]decimal.Decimal, len(debtors))
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}
		total = decimal.NewFromInt(int64(len(debtors)))
	case models.SplitPercentage:
		if err := validatePercentages(debtors, percentages); err != nil {
			return nil, err
		}
		weights = make([]decimal.Decimal, len(debtors))
		for i, d := range debtors {
			weights[i] = percentages[d]
		}
		total = hundred
	default:
		return nil, &models.ValidationError{Field: "split_mode", Reason: fmt.Sprintf("unsupported split mode %s", mode)}
	}

	units := amount.Shift(s.places)
	allocated := allocate(units, weights, total)

	shares := make([]Share, len(debtors))
	for i, d := range debtors {
		shares[i] = Share{DebtorID: d, Amount: allocated[i].Shift(-s.places)}
	}
	return shares, nil
}

// allocate splits an integral number of units proportionally to weights/total
// using the largest remainder method.
func allocate(units decimal.Decimal, weights []decimal.Decimal, total decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(weights))
	rems := make([]decimal.Decimal, len(weights))
	given := decimal.Zero

	for i, w := range weights {
		q, r := units.Mul(w).QuoRem(total, 0)
		out[i] = q
		rems[i] = r
		given = given.Add(q)
	}

	left := units.Sub(given).IntPart()
	if left <= 0 {
		return out
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rems[order[a]], rems[order[b]]
		if c := ra.Cmp(rb); c != 0 {
			return c > 0
		}
		return order[a] > order[b]
	})

	one := decimal.NewFromInt(1)
	for k := int64(0); k < left; k++ {
		i := order[k%int64(len(order))]
		out[i] = out[i].Add(one)
	}
	return out
}

func (s Splitter) validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &models.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if !amount.Equal(amount.Truncate(s.places)) {
		return &models.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("%s has more than %d decimal places", amount, s.places),
		}
	}
	return nil
}

func validateDebtors(debtors []string) error {
	if len(debtors) == 0 {
		return &models.ValidationError{Field: "debtors", Reason: "at least one debtor is required"}
	}
	seen := make(map[string]bool, len(debtors))
	for _, d := range debtors {
		if d == "" {
			return &models.ValidationError{Field: "debtors", Reason: "debtor id cannot be empty"}
		}
		if seen[d] {
			return &models.ValidationError{Field: "debtors", Reason: fmt.Sprintf("debtor %q listed twice", d)}
		}
		seen[d] = true
	}
	return nil
}

// validatePercentages requires one non-negative percentage per debtor and no
// others, summing to exactly 100.
func validatePercentages(debtors []string, percentages map[string]decimal.Decimal) error {
	listed := make(map[string]bool, len(debtors))
	for _, d := range debtors {
		listed[d] = true
		if _, ok := percentages[d]; !ok {
			return &models.ValidationError{Field: "percentages", Reason: fmt.Sprintf("missing percentage for debtor %q", d)}
		}
	}

	sum := decimal.Zero
	for debtor, p := range percentages {
		if !listed[debtor] {
			return &models.ValidationError{Field: "percentages", Reason: fmt.Sprintf("percentage given for %q who is not a debtor", debtor)}
		}
		if p.IsNegative() {
			return &models.ValidationError{Field: "percentages", Reason: fmt.Sprintf("negative percentage for debtor %q", debtor)}
		}
		sum = sum.Add(p)
	}
	if !sum.Equal(hundred) {
		return &models.ValidationError{Field: "percentages", Reason: fmt.Sprintf("must sum to 100, got %s", sum)}
	}
	return nil
}
