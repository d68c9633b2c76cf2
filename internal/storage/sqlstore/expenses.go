package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// InsertExpense persists the expense header.
func (q *queries) InsertExpense(ctx context.Context, expense *models.Expense) error {
	_, err := q.exec(ctx,
		`INSERT INTO expenses (expense_id, group_id, paid_by, amount, created_at, description, tag)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Amount, expense.CreatedAt,
		nullable(expense.Description), nullable(expense.Tag),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// UpdateExpense rewrites the mutable header fields of an expense.
func (q *queries) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	result, err := q.exec(ctx,
		`UPDATE expenses SET paid_by = ?, amount = ?, description = ?, tag = ? WHERE expense_id = ?`,
		expense.PayerID, expense.Amount, nullable(expense.Description), nullable(expense.Tag), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return expectRow(result, "expense", expense.ID)
}

// DeleteExpense removes the expense header. Shares and transactions must be
// deleted first.
func (q *queries) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := q.exec(ctx, `DELETE FROM expenses WHERE expense_id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return expectRow(result, "expense", expenseID)
}

// GetExpense retrieves an expense by ID with all of its shares.
func (q *queries) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(q.queryRow(ctx,
		`SELECT expense_id, group_id, paid_by, amount, created_at, description, tag
		 FROM expenses WHERE expense_id = ?`,
		expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	shares, err := q.listShares(ctx, []string{expenseID})
	if err != nil {
		return nil, err
	}
	expense.Shares = shares[expenseID]
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group, newest first.
func (q *queries) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := q.query(ctx,
		`SELECT expense_id, group_id, paid_by, amount, created_at, description, tag
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC, expense_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	var ids []string
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		ids = append(ids, expense.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return expenses, nil
	}

	shares, err := q.listShares(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		expense.Shares = shares[expense.ID]
	}
	return expenses, nil
}

// InsertShare persists one participant row.
func (q *queries) InsertShare(ctx context.Context, share models.Share) error {
	_, err := q.exec(ctx,
		`INSERT INTO expense_participants (expense_id, user_id, share, amount, settled) VALUES (?, ?, ?, ?, ?)`,
		share.ExpenseID, share.UserID, share.Amount, share.Owed, string(share.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert share for %s: %w", share.UserID, err)
	}
	return nil
}

// UpdateShare rewrites the assigned amount, owed amount and status of a share.
func (q *queries) UpdateShare(ctx context.Context, share models.Share) error {
	result, err := q.exec(ctx,
		`UPDATE expense_participants SET share = ?, amount = ?, settled = ? WHERE expense_id = ? AND user_id = ?`,
		share.Amount, share.Owed, string(share.Status), share.ExpenseID, share.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share for %s: %w", share.UserID, err)
	}
	return expectRow(result, "share", share.ExpenseID+"/"+share.UserID)
}

// DeleteShare removes a single participant row.
func (q *queries) DeleteShare(ctx context.Context, expenseID, userID string) error {
	result, err := q.exec(ctx,
		`DELETE FROM expense_participants WHERE expense_id = ? AND user_id = ?`,
		expenseID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete share for %s: %w", userID, err)
	}
	return expectRow(result, "share", expenseID+"/"+userID)
}

// DeleteShares removes every participant row of an expense.
func (q *queries) DeleteShares(ctx context.Context, expenseID string) error {
	if _, err := q.exec(ctx, `DELETE FROM expense_participants WHERE expense_id = ?`, expenseID); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	return nil
}

// listShares loads the shares of the given expenses, keyed by expense ID.
func (q *queries) listShares(ctx context.Context, expenseIDs []string) (map[string][]models.Share, error) {
	args := make([]any, len(expenseIDs))
	for i, id := range expenseIDs {
		args[i] = id
	}

	rows, err := q.query(ctx,
		`SELECT expense_id, user_id, share, amount, settled FROM expense_participants
		 WHERE expense_id IN (`+placeholders(len(expenseIDs))+`) ORDER BY expense_id, user_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	shares := make(map[string][]models.Share, len(expenseIDs))
	for rows.Next() {
		var s models.Share
		var status string
		if err := rows.Scan(&s.ExpenseID, &s.UserID, &s.Amount, &s.Owed, &status); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		s.Status = models.SettlementStatus(status)
		shares[s.ExpenseID] = append(shares[s.ExpenseID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var description, tag sql.NullString
	err := row.Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Amount,
		&expense.CreatedAt, &description, &tag)
	if err != nil {
		return nil, err
	}
	expense.Description = description.String
	expense.Tag = tag.String
	return expense, nil
}

// expectRow turns an update or delete that touched nothing into ErrNotFound.
func expectRow(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.NotFoundError(kind, id)
	}
	return nil
}
