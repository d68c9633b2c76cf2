package models

import "math"

// Epsilon is the tolerance used when comparing monetary amounts.
const Epsilon = 1e-9

// SettlementStatus tracks how much of a share remains unpaid.
// The values are the ones persisted in the participants table.
type SettlementStatus string

const (
	// StatusUnsettled means nothing has been paid yet.
	StatusUnsettled SettlementStatus = "NO"
	// StatusPartial means some, but not all, of the share has been paid.
	StatusPartial SettlementStatus = "PARTIAL"
	// StatusSettled means nothing is owed anymore.
	StatusSettled SettlementStatus = "SETTLED"
)

// Valid reports whether s is one of the known statuses.
func (s SettlementStatus) Valid() bool {
	switch s {
	case StatusUnsettled, StatusPartial, StatusSettled:
		return true
	}
	return false
}

// ShareStatus derives the settlement status of a share from its assigned
// amount and what is still owed.
func ShareStatus(amount, owed float64) SettlementStatus {
	switch {
	case math.Abs(owed) <= Epsilon:
		return StatusSettled
	case math.Abs(amount-owed) <= Epsilon:
		return StatusUnsettled
	default:
		return StatusPartial
	}
}

// Expense represents a single shared cost owned by one payer and split
// among participants.
type Expense struct {
	// ID is the opaque, immutable identifier ("E" followed by a UUID).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the user who paid the full amount.
	PayerID string

	// Amount is the total, always positive.
	Amount float64

	// Description is optional free text.
	Description string

	// Tag is an optional label (e.g., "food", "rent").
	Tag string

	// CreatedAt is the Unix timestamp when the expense was recorded. Immutable.
	CreatedAt int64

	// Shares holds one entry per participant, the payer included.
	// Ordered by user ID when loaded from storage.
	Shares []Share
}

// Share represents one participant's portion of an expense.
type Share struct {
	ExpenseID string
	UserID    string

	// Amount is the share assigned at split time. Signed; see package doc.
	Amount float64

	// Owed is what the participant still has to pay the expense payer.
	// Never negative and never above Amount.
	Owed float64

	Status SettlementStatus
}

// Participants returns the participant→share mapping of the expense.
func (e *Expense) Participants() map[string]float64 {
	m := make(map[string]float64, len(e.Shares))
	for _, s := range e.Shares {
		m[s.UserID] = s.Amount
	}
	return m
}

// Share returns the share of userID, if the user participates.
func (e *Expense) Share(userID string) (Share, bool) {
	for _, s := range e.Shares {
		if s.UserID == userID {
			return s, true
		}
	}
	return Share{}, false
}

// Settled reports whether every share of the expense is settled.
func (e *Expense) Settled() bool {
	for _, s := range e.Shares {
		if s.Status != StatusSettled {
			return false
		}
	}
	return true
}

// Transaction represents a payment from a participant to the expense payer.
// Transactions are never mutated; they are only deleted by a reversal.
type Transaction struct {
	// ID is the opaque identifier ("T" followed by a UUID).
	ID string

	// ExpenseID is the expense the payment was made against.
	ExpenseID string

	// PayerID is the participant paying down their share.
	PayerID string

	// PayeeID is the user receiving the payment (the expense payer).
	PayeeID string

	// Amount is the payment amount, always positive.
	Amount float64

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// Debt is a derived row: DebtorID still owes CreditorID Owed on ExpenseID.
type Debt struct {
	ExpenseID  string
	GroupID    string
	DebtorID   string
	CreditorID string
	Owed       float64
}
