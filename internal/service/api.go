package service

// Messages of the splitledger.v1 services. They are plain structs carried
// as JSON over the Connect protocol.

// Share is one participant's portion of an expense.
type Share struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Owed   float64 `json:"owed"`
	Status string  `json:"status"`
}

// Expense is a shared cost with its shares.
type Expense struct {
	ID          string   `json:"id"`
	GroupID     string   `json:"groupId"`
	PayerID     string   `json:"payerId"`
	Amount      float64  `json:"amount"`
	Description string   `json:"description,omitempty"`
	Tag         string   `json:"tag,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	Shares      []*Share `json:"shares"`
	Settled     bool     `json:"settled"`
}

// Transaction is a recorded payment.
type Transaction struct {
	ID        string  `json:"id"`
	ExpenseID string  `json:"expenseId"`
	PayerID   string  `json:"payerId"`
	PayeeID   string  `json:"payeeId"`
	Amount    float64 `json:"amount"`
	CreatedAt int64   `json:"createdAt"`
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	CreatedAt   int64    `json:"createdAt"`
}

// SplitSpec selects a split policy. Params holds one value per participant
// and is empty for the equal policy.
type SplitSpec struct {
	Policy       string    `json:"policy"`
	Participants []string  `json:"participants"`
	Params       []float64 `json:"params,omitempty"`
}

// MemberBalance is a member's outstanding net balance within a group.
type MemberBalance struct {
	UserID     string  `json:"userId"`
	NetBalance float64 `json:"netBalance"`
	Receivable float64 `json:"receivable"`
	Payable    float64 `json:"payable"`
}

// Debt is a simplified payment that clears group balances.
type Debt struct {
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	Amount     float64 `json:"amount"`
}

// CreateExpenseRequest takes either Shares or Split.
type CreateExpenseRequest struct {
	GroupID     string             `json:"groupId"`
	PayerID     string             `json:"payerId"`
	Amount      float64            `json:"amount"`
	Shares      map[string]float64 `json:"shares,omitempty"`
	Split       *SplitSpec         `json:"split,omitempty"`
	Description string             `json:"description,omitempty"`
	Tag         string             `json:"tag,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// EditExpenseRequest changes the fields that are set.
type EditExpenseRequest struct {
	ExpenseID   string             `json:"expenseId"`
	Amount      *float64           `json:"amount,omitempty"`
	PayerID     *string            `json:"payerId,omitempty"`
	Description *string            `json:"description,omitempty"`
	Tag         *string            `json:"tag,omitempty"`
	Shares      map[string]float64 `json:"shares,omitempty"`
	Split       *SplitSpec         `json:"split,omitempty"`
}

type EditExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListGroupExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListGroupExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// PreviewSplitRequest runs the split engine without recording anything.
type PreviewSplitRequest struct {
	Amount float64   `json:"amount"`
	Split  SplitSpec `json:"split"`
}

type PreviewSplitResponse struct {
	Shares map[string]float64 `json:"shares"`
}

// RecordPaymentRequest pays down PayerID's share. PayeeID defaults to the
// expense payer.
type RecordPaymentRequest struct {
	ExpenseID string  `json:"expenseId"`
	PayerID   string  `json:"payerId"`
	PayeeID   string  `json:"payeeId,omitempty"`
	Amount    float64 `json:"amount"`
}

type RecordPaymentResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ReversePaymentRequest struct {
	TransactionID string `json:"transactionId"`
}

type ReversePaymentResponse struct {
	Share *Share `json:"share"`
}

type ListExpenseTransactionsRequest struct {
	ExpenseID string `json:"expenseId"`
}

type ListExpenseTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// ListUserTransactionsRequest bounds are inclusive Unix timestamps; zero
// leaves that end open.
type ListUserTransactionsRequest struct {
	UserID string `json:"userId"`
	From   int64  `json:"from,omitempty"`
	To     int64  `json:"to,omitempty"`
}

type ListUserTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetUserDuesRequest struct {
	UserID string `json:"userId"`
}

// GetUserDuesResponse maps counterparty to net amount; positive means the
// counterparty owes the user.
type GetUserDuesResponse struct {
	Dues map[string]float64 `json:"dues"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
	Debts    []*Debt          `json:"debts"`
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

// GetUserRequest looks a user up by ID or, when ID is empty, by email.
type GetUserRequest struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type AddGroupMembersRequest struct {
	GroupID string   `json:"groupId"`
	UserIDs []string `json:"userIds"`
}

type AddGroupMembersResponse struct {
	Group *Group `json:"group"`
}
