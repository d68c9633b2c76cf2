package sqlstore

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// Outstanding shares joined with their expense. The payer's own row is
// excluded, as are shares that are fully paid.
const debtQuery = `SELECT e.expense_id, e.group_id, p.user_id, e.paid_by, p.amount
	FROM expense_participants p
	JOIN expenses e ON e.expense_id = p.expense_id
	WHERE p.user_id <> e.paid_by AND p.amount <> 0`

// ListDebtsOwedTo returns what others still owe creditorID.
func (q *queries) ListDebtsOwedTo(ctx context.Context, creditorID string) ([]models.Debt, error) {
	return q.listDebts(ctx, debtQuery+` AND e.paid_by = ? ORDER BY e.expense_id, p.user_id`, creditorID)
}

// ListDebtsOwedBy returns what debtorID still owes others.
func (q *queries) ListDebtsOwedBy(ctx context.Context, debtorID string) ([]models.Debt, error) {
	return q.listDebts(ctx, debtQuery+` AND p.user_id = ? ORDER BY e.expense_id`, debtorID)
}

// ListGroupDebts returns every outstanding share in a group.
func (q *queries) ListGroupDebts(ctx context.Context, groupID string) ([]models.Debt, error) {
	return q.listDebts(ctx, debtQuery+` AND e.group_id = ? ORDER BY e.expense_id, p.user_id`, groupID)
}

func (q *queries) listDebts(ctx context.Context, query string, args ...any) ([]models.Debt, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var d models.Debt
		if err := rows.Scan(&d.ExpenseID, &d.GroupID, &d.DebtorID, &d.CreditorID, &d.Owed); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}
