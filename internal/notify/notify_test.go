package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulti(t *testing.T) {
	var got []string
	record := func(name string) Notifier {
		return Func(func(_ context.Context, e Event) {
			got = append(got, name+":"+string(e.Kind)+":"+e.Scope)
		})
	}

	m := Multi{record("first"), nil, record("second"), Log{}}
	m.AfterMutation(context.Background(), Event{Scope: GroupScope("g1"), Kind: DebtSettled, ExpenseID: 3})

	assert.Equal(t, []string{
		"first:debt.settled:group:g1",
		"second:debt.settled:group:g1",
	}, got)
}
