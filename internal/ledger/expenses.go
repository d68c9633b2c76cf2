package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var epsilon = decimal.NewFromFloat(models.Epsilon)

// SplitInput asks the split engine to compute the shares.
type SplitInput struct {
	Policy       calculator.Policy
	Participants []string
	// Params holds one value per participant; empty for PolicyEqual.
	Params []float64
}

// CreateExpenseInput describes a new expense. Exactly one of Shares and
// Split must be set.
type CreateExpenseInput struct {
	GroupID string
	PayerID string
	Amount  float64

	// Shares is an explicit participant→share mapping.
	Shares map[string]float64
	Split  *SplitInput

	Description string
	Tag         string
}

// EditExpenseInput lists the fields to change. Nil fields are left as they
// are. A new payer requires Shares or Split.
type EditExpenseInput struct {
	Amount      *float64
	PayerID     *string
	Description *string
	Tag         *string

	Shares map[string]float64
	Split  *SplitInput
}

// CreateExpense validates and records a new expense with one share per
// participant. Non-payers start owing their full share; the payer's own
// share is settled from the start.
func (l *Ledger) CreateExpense(ctx context.Context, in CreateExpenseInput) (expense *models.Expense, err error) {
	defer func() { l.metrics.observe("create_expense", err) }()

	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.PayerID == "" {
		return nil, validationErr("payer is required")
	}
	if in.GroupID == "" {
		return nil, validationErr("group is required")
	}
	shares, err := resolveShares(in.Amount, in.Shares, in.Split)
	if err != nil {
		return nil, err
	}
	if err := checkShares(in.PayerID, shares); err != nil {
		return nil, err
	}

	expense = &models.Expense{
		ID:          l.expenseID(),
		GroupID:     in.GroupID,
		PayerID:     in.PayerID,
		Amount:      in.Amount,
		Description: in.Description,
		Tag:         in.Tag,
		CreatedAt:   l.now().Unix(),
	}
	expense.Shares, err = buildShares(expense.ID, in.PayerID, shares, nil)
	if err != nil {
		return nil, err
	}

	err = l.store.WithTx(ctx, func(q storage.Queries) error {
		group, err := q.GetGroup(ctx, in.GroupID)
		if err != nil {
			return storeErr("get group", err)
		}
		if err := checkMembers(ctx, q, group, slices.Collect(maps.Keys(shares))); err != nil {
			return err
		}

		if err := q.InsertExpense(ctx, expense); err != nil {
			return storeErr("insert expense", err)
		}
		for _, s := range expense.Shares {
			if err := q.InsertShare(ctx, s); err != nil {
				return storeErr("insert share", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("create expense", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount,
		"participants", len(expense.Shares),
	)
	return expense, nil
}

// EditExpense changes an expense and re-splits it when a new mapping is
// given. Removed participants lose their share, added ones get a new share
// and changed shares are updated in place with the amount already paid
// carried over. Every change commits together or not at all.
func (l *Ledger) EditExpense(ctx context.Context, expenseID string, in EditExpenseInput) (expense *models.Expense, err error) {
	defer func() { l.metrics.observe("edit_expense", err) }()

	if in.Amount != nil {
		if err := checkAmount(*in.Amount); err != nil {
			return nil, err
		}
	}
	if in.PayerID != nil && *in.PayerID == "" {
		return nil, validationErr("payer cannot be empty")
	}

	err = l.store.WithTx(ctx, func(q storage.Queries) error {
		var err error
		expense, err = q.GetExpense(ctx, expenseID)
		if err != nil {
			return storeErr("get expense", err)
		}

		amount := expense.Amount
		if in.Amount != nil {
			amount = *in.Amount
		}
		payer := expense.PayerID
		payerChanged := in.PayerID != nil && *in.PayerID != expense.PayerID
		if payerChanged {
			payer = *in.PayerID
		}

		resplit := in.Shares != nil || in.Split != nil
		if payerChanged && !resplit {
			return models.ErrPayerChangeRequiresSplit
		}

		shares := expense.Participants()
		if resplit {
			shares, err = resolveShares(amount, in.Shares, in.Split)
			if err != nil {
				return err
			}
		} else if !calculator.SumMatches(shares, amount) {
			return fmt.Errorf("%w: amount changed to %v without a new split", models.ErrSplitMismatch, amount)
		}
		if err := checkShares(payer, shares); err != nil {
			return err
		}

		txns, err := q.ListTransactionsByExpense(ctx, expenseID)
		if err != nil {
			return storeErr("list transactions", err)
		}
		if payerChanged && len(txns) > 0 {
			return validationErr("cannot change the payer of expense %s: %d payments recorded", expenseID, len(txns))
		}

		if resplit {
			group, err := q.GetGroup(ctx, expense.GroupID)
			if err != nil {
				return storeErr("get group", err)
			}
			if err := checkMembers(ctx, q, group, slices.Collect(maps.Keys(shares))); err != nil {
				return err
			}
		}

		paid := paidAmounts(expense)
		current := make(map[string]models.Share, len(expense.Shares))
		var removed []string
		for _, s := range expense.Shares {
			current[s.UserID] = s
			if _, ok := shares[s.UserID]; ok {
				continue
			}
			if paid[s.UserID].GreaterThan(epsilon) {
				return validationErr("cannot remove %s from expense %s: %s already paid",
					s.UserID, expenseID, paid[s.UserID].String())
			}
			removed = append(removed, s.UserID)
		}

		next, err := buildShares(expenseID, payer, shares, paid)
		if err != nil {
			return err
		}

		expense.Amount = amount
		expense.PayerID = payer
		if in.Description != nil {
			expense.Description = *in.Description
		}
		if in.Tag != nil {
			expense.Tag = *in.Tag
		}
		if err := q.UpdateExpense(ctx, expense); err != nil {
			return storeErr("update expense", err)
		}

		for _, userID := range removed {
			if err := q.DeleteShare(ctx, expenseID, userID); err != nil {
				return storeErr("delete share", err)
			}
		}
		for _, s := range next {
			old, ok := current[s.UserID]
			switch {
			case !ok:
				err = q.InsertShare(ctx, s)
			case old != s:
				err = q.UpdateShare(ctx, s)
			default:
				continue
			}
			if err != nil {
				return storeErr("write share", err)
			}
		}
		expense.Shares = next
		return nil
	})
	if err != nil {
		return nil, storeErr("edit expense", err)
	}

	slog.Info("Expense edited",
		"expense_id", expense.ID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount,
		"participants", len(expense.Shares),
	)
	return expense, nil
}

// DeleteExpense removes an expense with its shares and the payments
// recorded against it, atomically.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID string) (err error) {
	defer func() { l.metrics.observe("delete_expense", err) }()

	err = l.store.WithTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetExpense(ctx, expenseID); err != nil {
			return storeErr("get expense", err)
		}
		if err := q.DeleteTransactionsByExpense(ctx, expenseID); err != nil {
			return storeErr("delete transactions", err)
		}
		if err := q.DeleteShares(ctx, expenseID); err != nil {
			return storeErr("delete shares", err)
		}
		if err := q.DeleteExpense(ctx, expenseID); err != nil {
			return storeErr("delete expense", err)
		}
		return nil
	})
	if err != nil {
		return storeErr("delete expense", err)
	}

	slog.Info("Expense deleted", "expense_id", expenseID)
	return nil
}

// GetExpense returns an expense with its shares.
func (l *Ledger) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, storeErr("get expense", err)
	}
	return expense, nil
}

// ListGroupExpenses returns the expenses of a group, newest first.
func (l *Ledger) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, storeErr("get group", err)
	}
	expenses, err := l.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("list expenses", err)
	}
	return expenses, nil
}

// IsSettled reports whether every share of the expense is settled.
func (l *Ledger) IsSettled(ctx context.Context, expenseID string) (bool, error) {
	expense, err := l.GetExpense(ctx, expenseID)
	if err != nil {
		return false, err
	}
	return expense.Settled(), nil
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return validationErr("amount must be positive, got %v", amount)
	}
	return nil
}

// resolveShares returns the explicit mapping or runs the split engine, and
// checks that the result sums to amount.
func resolveShares(amount float64, shares map[string]float64, split *SplitInput) (map[string]float64, error) {
	switch {
	case shares != nil && split != nil:
		return nil, validationErr("provide either explicit shares or a split policy, not both")
	case split != nil:
		var err error
		shares, err = calculator.Split(amount, split.Policy, split.Participants, split.Params)
		if err != nil {
			return nil, err
		}
	case len(shares) == 0:
		return nil, models.ErrEmptyParticipants
	}

	for userID, share := range shares {
		if userID == "" {
			return nil, fmt.Errorf("%w: empty participant ID", models.ErrInvalidSplitParameters)
		}
		if math.IsNaN(share) || math.IsInf(share, 0) {
			return nil, fmt.Errorf("%w: share of %s is not a number", models.ErrInvalidSplitParameters, userID)
		}
	}
	if !calculator.SumMatches(shares, amount) {
		return nil, fmt.Errorf("%w: shares sum to %s, amount is %v",
			models.ErrSplitMismatch, calculator.Sum(shares).String(), amount)
	}
	return shares, nil
}

// checkShares enforces that the payer participates and nobody else has a
// negative share.
func checkShares(payerID string, shares map[string]float64) error {
	if _, ok := shares[payerID]; !ok {
		return validationErr("payer %s must be one of the participants", payerID)
	}
	for userID, share := range shares {
		if userID != payerID && share < -models.Epsilon {
			return validationErr("share of %s cannot be negative, got %v", userID, share)
		}
	}
	return nil
}

// checkMembers verifies that every user exists and belongs to the group.
func checkMembers(ctx context.Context, q storage.Queries, group *models.Group, userIDs []string) error {
	slices.Sort(userIDs)
	for _, userID := range userIDs {
		if group.HasMember(userID) {
			continue
		}
		if _, err := q.GetUser(ctx, userID); err != nil {
			return storeErr("get user", err)
		}
		return validationErr("user %s is not a member of group %s", userID, group.ID)
	}
	return nil
}

// paidAmounts returns how much each non-payer has paid so far.
func paidAmounts(expense *models.Expense) map[string]decimal.Decimal {
	paid := make(map[string]decimal.Decimal, len(expense.Shares))
	for _, s := range expense.Shares {
		if s.UserID == expense.PayerID {
			continue
		}
		paid[s.UserID] = decimal.NewFromFloat(s.Amount).Sub(decimal.NewFromFloat(s.Owed))
	}
	return paid
}

// buildShares turns a mapping into share rows ordered by user ID. A
// non-payer owes their share minus what they already paid.
func buildShares(expenseID, payerID string, shares map[string]float64, paid map[string]decimal.Decimal) ([]models.Share, error) {
	out := make([]models.Share, 0, len(shares))
	for _, userID := range slices.Sorted(maps.Keys(shares)) {
		s := models.Share{
			ExpenseID: expenseID,
			UserID:    userID,
			Amount:    shares[userID],
			Status:    models.StatusSettled,
		}
		if userID != payerID {
			owed := decimal.NewFromFloat(s.Amount).Sub(paid[userID])
			if owed.LessThan(epsilon.Neg()) {
				return nil, validationErr("share of %s (%v) is below the %s already paid",
					userID, s.Amount, paid[userID].String())
			}
			if owed.Abs().LessThanOrEqual(epsilon) {
				owed = decimal.Zero
			}
			s.Owed = owed.InexactFloat64()
			s.Status = models.ShareStatus(s.Amount, s.Owed)
		}
		out = append(out, s)
	}
	return out, nil
}
