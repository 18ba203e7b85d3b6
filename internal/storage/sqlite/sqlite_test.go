package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestGroup(t *testing.T, store *SQLiteStore, members ...string) *models.Group {
	t.Helper()

	group := &models.Group{Name: "Flat", Members: members}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createExpense(t *testing.T, store *SQLiteStore, groupID, payer, amount string, debts ...models.DebtLine) *models.Expense {
	t.Helper()

	exp := &models.Expense{
		Title:       "Groceries",
		GroupID:     groupID,
		PayerID:     payer,
		CreatedByID: payer,
		Amount:      dec(amount),
		SplitMode:   models.SplitEqual,
	}
	if _, err := store.CreateExpenseWithDebts(context.Background(), exp, debts); err != nil {
		t.Fatalf("CreateExpenseWithDebts failed: %v", err)
	}
	return exp
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := newTestGroup(t, store, "A", "B", "C")

	t.Run("CreateExpenseWithDebts assigns monotonic IDs", func(t *testing.T) {
		first := createExpense(t, store, group.ID, "A", "100",
			models.DebtLine{DebtorID: "B", Amount: dec("50")},
			models.DebtLine{DebtorID: "C", Amount: dec("50")},
		)
		second := createExpense(t, store, group.ID, "B", "30",
			models.DebtLine{DebtorID: "A", Amount: dec("30")},
		)

		if first.ID == 0 {
			t.Fatal("Expected expense ID to be assigned")
		}
		if second.ID <= first.ID {
			t.Errorf("Expected increasing IDs, got %d then %d", first.ID, second.ID)
		}
		if first.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetExpense round-trips amounts and order", func(t *testing.T) {
		exp := &models.Expense{
			Title:       "Dinner",
			GroupID:     group.ID,
			PayerID:     "A",
			CreatedByID: "B",
			Amount:      dec("10.00"),
			SplitMode:   models.SplitPercentage,
			Percentages: map[string]decimal.Decimal{"C": dec("33.3"), "B": dec("66.7")},
		}
		debts := []models.DebtLine{
			{DebtorID: "C", Amount: dec("3.33")},
			{DebtorID: "B", Amount: dec("6.67")},
		}
		id, err := store.CreateExpenseWithDebts(ctx, exp, debts)
		if err != nil {
			t.Fatalf("CreateExpenseWithDebts failed: %v", err)
		}
		if debts[0].ExpenseID != id {
			t.Errorf("Expected debt lines to carry expense ID %d, got %d", id, debts[0].ExpenseID)
		}

		got, err := store.GetExpense(ctx, id)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(dec("10")) {
			t.Errorf("Amount mismatch: got %s", got.Amount)
		}
		if got.SplitMode != models.SplitPercentage {
			t.Errorf("SplitMode mismatch: got %s", got.SplitMode)
		}
		if got.CreatedByID != "B" {
			t.Errorf("CreatedByID mismatch: got %s", got.CreatedByID)
		}
		if !got.Percentages["C"].Equal(dec("33.3")) {
			t.Errorf("Percentages mismatch: got %v", got.Percentages)
		}
		if len(got.Debts) != 2 || got.Debts[0].DebtorID != "C" || got.Debts[1].DebtorID != "B" {
			t.Fatalf("Debt lines out of order: %+v", got.Debts)
		}
		if !got.Debts[0].Amount.Equal(dec("3.33")) {
			t.Errorf("Debt amount mismatch: got %s", got.Debts[0].Amount)
		}
		if got.Resolved || got.Debts[0].Settled {
			t.Error("New expense must start pending and unsettled")
		}
	})

	t.Run("GetExpense returns NotFoundError", func(t *testing.T) {
		_, err := store.GetExpense(ctx, 999999)
		if !models.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("duplicate debtor aborts the whole write", func(t *testing.T) {
		before, err := store.ListExpensesForGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesForGroup failed: %v", err)
		}

		exp := &models.Expense{Title: "Bad", GroupID: group.ID, PayerID: "A", CreatedByID: "A",
			Amount: dec("20"), SplitMode: models.SplitEqual}
		_, err = store.CreateExpenseWithDebts(ctx, exp, []models.DebtLine{
			{DebtorID: "B", Amount: dec("10")},
			{DebtorID: "B", Amount: dec("10")},
		})
		if err == nil {
			t.Fatal("Expected primary key violation")
		}

		after, err := store.ListExpensesForGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesForGroup failed: %v", err)
		}
		if len(after) != len(before) {
			t.Errorf("Expected no partial write, had %d expenses, now %d", len(before), len(after))
		}
	})

	t.Run("ListExpensesForGroup attaches debt lines", func(t *testing.T) {
		expenses, err := store.ListExpensesForGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesForGroup failed: %v", err)
		}
		if len(expenses) != 3 {
			t.Fatalf("Expected 3 expenses, got %d", len(expenses))
		}
		for i, e := range expenses {
			if i > 0 && e.ID <= expenses[i-1].ID {
				t.Errorf("Expenses not ordered by ID")
			}
			if !e.DebtSum().Equal(e.Amount) {
				t.Errorf("Expense %d: debts sum to %s, amount %s", e.ID, e.DebtSum(), e.Amount)
			}
		}
	})

	t.Run("ListExpensesForGroup for unknown group is empty", func(t *testing.T) {
		expenses, err := store.ListExpensesForGroup(ctx, "no-such-group")
		if err != nil {
			t.Fatalf("ListExpensesForGroup failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected no expenses, got %d", len(expenses))
		}
	})
}

func TestDeleteExpenseCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := newTestGroup(t, store, "A", "B")

	exp := createExpense(t, store, group.ID, "A", "40",
		models.DebtLine{DebtorID: "A", Amount: dec("20")},
		models.DebtLine{DebtorID: "B", Amount: dec("20")},
	)
	keep := createExpense(t, store, group.ID, "B", "10",
		models.DebtLine{DebtorID: "A", Amount: dec("10")},
	)

	if err := store.DeleteExpenseCascade(ctx, exp.ID); err != nil {
		t.Fatalf("DeleteExpenseCascade failed: %v", err)
	}

	if _, err := store.GetExpense(ctx, exp.ID); !models.IsNotFound(err) {
		t.Errorf("Expected deleted expense to be gone, got %v", err)
	}

	var orphans int
	if err := store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expense_debts WHERE expense_id = ?", exp.ID).Scan(&orphans); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if orphans != 0 {
		t.Errorf("Expected no orphan debt lines, found %d", orphans)
	}

	if _, err := store.GetExpense(ctx, keep.ID); err != nil {
		t.Errorf("Other expense should survive: %v", err)
	}

	if err := store.DeleteExpenseCascade(ctx, exp.ID); !models.IsNotFound(err) {
		t.Errorf("Expected NotFoundError on second delete, got %v", err)
	}
}

func TestSettlement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := newTestGroup(t, store, "A", "B", "C")
	exp := createExpense(t, store, group.ID, "A", "100",
		models.DebtLine{DebtorID: "B", Amount: dec("50")},
		models.DebtLine{DebtorID: "C", Amount: dec("50")},
	)

	t.Run("SetDebtLineSettled is applied once", func(t *testing.T) {
		changed, err := store.SetDebtLineSettled(ctx, exp.ID, "B")
		if err != nil || !changed {
			t.Fatalf("Expected first settle to change state, changed=%v err=%v", changed, err)
		}
		changed, err = store.SetDebtLineSettled(ctx, exp.ID, "B")
		if err != nil || changed {
			t.Fatalf("Expected repeat settle to be a no-op, changed=%v err=%v", changed, err)
		}

		got, _ := store.GetExpense(ctx, exp.ID)
		b, _ := got.Debt("B")
		c, _ := got.Debt("C")
		if !b.Settled || c.Settled {
			t.Errorf("Expected only B settled, got B=%v C=%v", b.Settled, c.Settled)
		}
		if got.Resolved {
			t.Error("Settling a line must not resolve the expense")
		}
	})

	t.Run("SetDebtLineSettled on missing line", func(t *testing.T) {
		if _, err := store.SetDebtLineSettled(ctx, exp.ID, "Z"); !models.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
		if _, err := store.SetDebtLineSettled(ctx, 424242, "B"); !models.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("SetExpenseResolved is applied once", func(t *testing.T) {
		changed, err := store.SetExpenseResolved(ctx, exp.ID)
		if err != nil || !changed {
			t.Fatalf("Expected first resolve to change state, changed=%v err=%v", changed, err)
		}
		changed, err = store.SetExpenseResolved(ctx, exp.ID)
		if err != nil || changed {
			t.Fatalf("Expected repeat resolve to be a no-op, changed=%v err=%v", changed, err)
		}

		got, _ := store.GetExpense(ctx, exp.ID)
		if !got.Resolved {
			t.Error("Expected expense resolved")
		}
		if b, _ := got.Debt("B"); !b.Settled {
			t.Error("B's line must stay settled")
		}
	})

	t.Run("SetExpenseResolved on missing expense", func(t *testing.T) {
		if _, err := store.SetExpenseResolved(ctx, 424242); !models.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("concurrent settles change state once", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			applied int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				changed, err := store.SetDebtLineSettled(ctx, exp.ID, "C")
				if err != nil {
					t.Errorf("SetDebtLineSettled failed: %v", err)
					return
				}
				if changed {
					mu.Lock()
					applied++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		if applied != 1 {
			t.Errorf("Expected exactly one applied transition, got %d", applied)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and sorts members", func(t *testing.T) {
		group := newTestGroup(t, store, "zoe", "adam", "mia")
		if group.ID == "" {
			t.Fatal("Expected group ID to be generated")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{"adam", "mia", "zoe"}
		if len(got.Members) != len(want) {
			t.Fatalf("Members mismatch: got %v", got.Members)
		}
		for i := range want {
			if got.Members[i] != want[i] {
				t.Errorf("Members[%d] = %s, want %s", i, got.Members[i], want[i])
			}
		}
	})

	t.Run("join and leave", func(t *testing.T) {
		group := newTestGroup(t, store, "adam")

		if err := store.AddGroupMember(ctx, group.ID, "bea"); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.AddGroupMember(ctx, group.ID, "bea"); err != nil {
			t.Fatalf("Re-adding a member should be a no-op: %v", err)
		}

		groups, err := store.ListGroupsForUser(ctx, "bea")
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || len(groups[0].Members) != 2 {
			t.Fatalf("Unexpected groups for bea: %+v", groups)
		}

		if err := store.RemoveGroupMember(ctx, group.ID, "bea"); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		if err := store.RemoveGroupMember(ctx, group.ID, "bea"); !models.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("missing group", func(t *testing.T) {
		if _, err := store.GetGroup(ctx, "nope"); !models.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
		if err := store.AddGroupMember(ctx, "nope", "adam"); !models.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser("alice", "alice@example.com", "Alice", "hash")
	bob := models.NewUser("bob", "bob@example.com", "Bob", "hash")
	for _, u := range []*models.User{alice, bob} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	got, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != "alice" || got.DisplayName != "Alice" {
		t.Errorf("Unexpected user: %+v", got)
	}

	if _, err := store.GetUserByID(ctx, "carol"); !models.IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}

	users, err := store.GetUsersByIDs(ctx, []string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("GetUsersByIDs failed: %v", err)
	}
	if len(users) != 2 || users["bob"].Email != "bob@example.com" {
		t.Errorf("Unexpected users: %+v", users)
	}

	if err := store.CreateUser(ctx, models.NewUser("alice2", "alice@example.com", "Dup", "hash")); err == nil {
		t.Error("Expected duplicate email to fail")
	}
}
