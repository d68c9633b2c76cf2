package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// RecordPaymentInput describes a payment against a participant's share.
type RecordPaymentInput struct {
	ExpenseID string
	// PayerID is the participant paying down their share.
	PayerID string
	// PayeeID defaults to the expense payer and must equal it when set.
	PayeeID string
	Amount  float64
}

// RecordPayment records a transaction and lowers the payer's owed amount.
// The share becomes SETTLED when nothing is left to pay, PARTIAL otherwise.
func (l *Ledger) RecordPayment(ctx context.Context, in RecordPaymentInput) (txn *models.Transaction, err error) {
	defer func() { l.metrics.observe("record_payment", err) }()

	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.PayerID == "" {
		return nil, validationErr("payer is required")
	}

	var share models.Share
	err = l.store.WithTx(ctx, func(q storage.Queries) error {
		expense, err := q.GetExpense(ctx, in.ExpenseID)
		if err != nil {
			return storeErr("get expense", err)
		}

		var ok bool
		share, ok = expense.Share(in.PayerID)
		if !ok {
			return validationErr("%s is not a participant of expense %s", in.PayerID, in.ExpenseID)
		}
		payee := in.PayeeID
		if payee == "" {
			payee = expense.PayerID
		}
		if payee != expense.PayerID {
			return validationErr("payments on expense %s go to %s, not %s", in.ExpenseID, expense.PayerID, payee)
		}
		if share.Status == models.StatusSettled {
			return fmt.Errorf("%w: %s owes nothing on expense %s", models.ErrAlreadySettled, in.PayerID, in.ExpenseID)
		}

		owed := decimal.NewFromFloat(share.Owed)
		amount := decimal.NewFromFloat(in.Amount)
		if amount.Sub(owed).GreaterThan(epsilon) {
			return fmt.Errorf("%w: paying %v but only %v is owed", models.ErrOverpayment, in.Amount, share.Owed)
		}
		remaining := owed.Sub(amount)
		if remaining.Abs().LessThanOrEqual(epsilon) {
			remaining = decimal.Zero
		}
		share.Owed = remaining.InexactFloat64()
		share.Status = models.ShareStatus(share.Amount, share.Owed)

		txn = &models.Transaction{
			ID:        l.transactionID(),
			ExpenseID: in.ExpenseID,
			PayerID:   in.PayerID,
			PayeeID:   payee,
			Amount:    in.Amount,
			CreatedAt: l.now().Unix(),
		}
		if err := q.InsertTransaction(ctx, txn); err != nil {
			return storeErr("insert transaction", err)
		}
		if err := q.UpdateShare(ctx, share); err != nil {
			return storeErr("update share", err)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("record payment", err)
	}

	l.metrics.observePayment(txn.Amount)
	slog.Info("Payment recorded",
		"transaction_id", txn.ID,
		"expense_id", txn.ExpenseID,
		"payer_id", txn.PayerID,
		"amount", txn.Amount,
		"owed", share.Owed,
		"status", share.Status,
	)
	return txn, nil
}

// ReversePayment deletes a transaction and gives the amount back to the
// payer's owed balance. It is the only way a share moves back from SETTLED
// or PARTIAL. The restored share is returned.
func (l *Ledger) ReversePayment(ctx context.Context, transactionID string) (share models.Share, err error) {
	defer func() { l.metrics.observe("reverse_payment", err) }()

	err = l.store.WithTx(ctx, func(q storage.Queries) error {
		txn, err := q.GetTransaction(ctx, transactionID)
		if err != nil {
			return storeErr("get transaction", err)
		}
		expense, err := q.GetExpense(ctx, txn.ExpenseID)
		if err != nil {
			return storeErr("get expense", err)
		}

		var ok bool
		share, ok = expense.Share(txn.PayerID)
		if !ok {
			return models.NotFoundError("share", txn.ExpenseID+"/"+txn.PayerID)
		}

		owed := decimal.NewFromFloat(share.Owed).Add(decimal.NewFromFloat(txn.Amount))
		if owed.Sub(decimal.NewFromFloat(share.Amount)).GreaterThan(epsilon) {
			return validationErr("reversing %s would raise the owed amount of %s above the share %v",
				transactionID, txn.PayerID, share.Amount)
		}
		share.Owed = owed.InexactFloat64()
		share.Status = models.ShareStatus(share.Amount, share.Owed)

		if err := q.DeleteTransaction(ctx, transactionID); err != nil {
			return storeErr("delete transaction", err)
		}
		if err := q.UpdateShare(ctx, share); err != nil {
			return storeErr("update share", err)
		}
		return nil
	})
	if err != nil {
		return models.Share{}, storeErr("reverse payment", err)
	}

	slog.Info("Payment reversed",
		"transaction_id", transactionID,
		"expense_id", share.ExpenseID,
		"payer_id", share.UserID,
		"owed", share.Owed,
		"status", share.Status,
	)
	return share, nil
}

// GetTransaction returns a recorded payment.
func (l *Ledger) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn, err := l.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, storeErr("get transaction", err)
	}
	return txn, nil
}

// ListExpenseTransactions returns the payments recorded against an expense,
// oldest first.
func (l *Ledger) ListExpenseTransactions(ctx context.Context, expenseID string) ([]*models.Transaction, error) {
	if _, err := l.store.GetExpense(ctx, expenseID); err != nil {
		return nil, storeErr("get expense", err)
	}
	txns, err := l.store.ListTransactionsByExpense(ctx, expenseID)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	return txns, nil
}

// ListUserTransactions returns the payments a user made or received, newest
// first. from and to are inclusive Unix timestamps; zero leaves that end open.
func (l *Ledger) ListUserTransactions(ctx context.Context, userID string, from, to int64) ([]*models.Transaction, error) {
	if from < 0 || to < 0 || (from > 0 && to > 0 && from > to) {
		return nil, validationErr("invalid time range [%d, %d]", from, to)
	}
	if _, err := l.store.GetUser(ctx, userID); err != nil {
		return nil, storeErr("get user", err)
	}
	txns, err := l.store.ListTransactionsByUser(ctx, userID, from, to)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	return txns, nil
}
