package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
)

const transactionColumns = `trans_id, expense_id, payer_id, payee_id, amount, created_at`

// InsertTransaction persists a new payment.
func (q *queries) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	_, err := q.exec(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.ExpenseID, txn.PayerID, txn.PayeeID, txn.Amount, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a payment by ID.
func (q *queries) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := q.queryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE trans_id = ?`,
		transactionID,
	).Scan(&txn.ID, &txn.ExpenseID, &txn.PayerID, &txn.PayeeID, &txn.Amount, &txn.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError("transaction", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// DeleteTransaction removes a payment by ID.
func (q *queries) DeleteTransaction(ctx context.Context, transactionID string) error {
	result, err := q.exec(ctx, `DELETE FROM transactions WHERE trans_id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectRow(result, "transaction", transactionID)
}

// DeleteTransactionsByExpense removes every payment recorded against an expense.
func (q *queries) DeleteTransactionsByExpense(ctx context.Context, expenseID string) error {
	if _, err := q.exec(ctx, `DELETE FROM transactions WHERE expense_id = ?`, expenseID); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

// ListTransactionsByExpense retrieves the payments of an expense, oldest first.
func (q *queries) ListTransactionsByExpense(ctx context.Context, expenseID string) ([]*models.Transaction, error) {
	return q.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE expense_id = ? ORDER BY created_at, trans_id`,
		expenseID,
	)
}

// ListTransactionsByUser retrieves the payments a user made or received,
// newest first, optionally bounded by [from, to].
func (q *queries) ListTransactionsByUser(ctx context.Context, userID string, from, to int64) ([]*models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE (payer_id = ? OR payee_id = ?)`)
	args := []any{userID, userID}
	if from > 0 {
		sb.WriteString(` AND created_at >= ?`)
		args = append(args, from)
	}
	if to > 0 {
		sb.WriteString(` AND created_at <= ?`)
		args = append(args, to)
	}
	sb.WriteString(` ORDER BY created_at DESC, trans_id`)

	return q.listTransactions(ctx, sb.String(), args...)
}

func (q *queries) listTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		if err := rows.Scan(&txn.ID, &txn.ExpenseID, &txn.PayerID, &txn.PayeeID, &txn.Amount, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
