package rpc

import "github.com/shopspring/decimal"

// Amounts are decimal strings ("12.50") on the wire.

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type DebtLine struct {
	DebtorID string          `json:"debtor_id"`
	Amount   decimal.Decimal `json:"amount"`
	Settled  bool            `json:"settled"`
}

type Expense struct {
	ID          int64                      `json:"id"`
	GroupID     string                     `json:"group_id"`
	Title       string                     `json:"title"`
	PayerID     string                     `json:"payer_id"`
	CreatedByID string                     `json:"created_by_id"`
	Amount      decimal.Decimal            `json:"amount"`
	Resolved    bool                       `json:"resolved"`
	SplitMode   string                     `json:"split_mode"`
	Percentages map[string]decimal.Decimal `json:"percentages,omitempty"`
	Debts       []DebtLine                 `json:"debts"`
	CreatedAt   int64                      `json:"created_at"`
}

// LedgerService messages.

type CreateExpenseRequest struct {
	GroupID string          `json:"group_id"`
	Title   string          `json:"title"`
	PayerID string          `json:"payer_id,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	// SplitMode is "equal" or "percentage".
	SplitMode   string                     `json:"split_mode"`
	Debtors     []string                   `json:"debtors"`
	Percentages map[string]decimal.Decimal `json:"percentages,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID int64 `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID int64 `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ResolveExpenseRequest struct {
	ExpenseID int64 `json:"expense_id"`
}

type ResolveExpenseResponse struct {
	// Changed is false when the expense was already resolved.
	Changed bool `json:"changed"`
}

type SettleDebtRequest struct {
	ExpenseID int64  `json:"expense_id"`
	DebtorID  string `json:"debtor_id"`
}

type SettleDebtResponse struct {
	// Changed is false when the line was already settled.
	Changed bool `json:"changed"`
}

type GetNetBalanceRequest struct {
	GroupID string `json:"group_id"`
	// UserID defaults to the caller.
	UserID string `json:"user_id,omitempty"`
	// CounterpartID, when set, restricts the balance to expenses coupling the two users.
	CounterpartID string `json:"counterpart_id,omitempty"`
	// Involvement is "any" (default) or "counterparty".
	Involvement string `json:"involvement,omitempty"`
}

type GetNetBalanceResponse struct {
	UserID             string          `json:"user_id"`
	CounterpartID      string          `json:"counterpart_id,omitempty"`
	Net                decimal.Decimal `json:"net"`
	InvolvedExpenseIDs []int64         `json:"involved_expense_ids"`
	Resolved           bool            `json:"resolved"`
}

type ListMemberBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type MemberBalance struct {
	UserID           string          `json:"user_id"`
	Name             string          `json:"name"`
	Net              decimal.Decimal `json:"net"`
	Resolved         bool            `json:"resolved"`
	InvolvedExpenses []*Expense      `json:"involved_expenses"`
}

type ListMemberBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
}

type GetGroupSummaryRequest struct {
	GroupID string `json:"group_id"`
}

type MemberPosition struct {
	UserID string          `json:"user_id"`
	Paid   decimal.Decimal `json:"paid"`
	Owed   decimal.Decimal `json:"owed"`
	Net    decimal.Decimal `json:"net"`
}

type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type GetGroupSummaryResponse struct {
	Group        *Group            `json:"group"`
	Positions    []*MemberPosition `json:"positions"`
	Transfers    []*Transfer       `json:"transfers"`
	ExpenseCount int               `json:"expense_count"`
}

// GroupService messages.

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type JoinGroupRequest struct {
	GroupID string `json:"group_id"`
}

type JoinGroupResponse struct {
	Group *Group `json:"group"`
}

type LeaveGroupRequest struct {
	GroupID string `json:"group_id"`
}

type LeaveGroupResponse struct{}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// AuthService messages.

type RegisterRequest struct {
	// UserID is the ledger identity; the email is used when empty.
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
