package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/calculator"
)

// UserDues returns the net balance between userID and each counterparty
// across all expenses. Positive amounts are owed to the user, negative
// amounts are owed by the user. Counterparties that net to zero are left out.
func (l *Ledger) UserDues(ctx context.Context, userID string) (map[string]float64, error) {
	if _, err := l.store.GetUser(ctx, userID); err != nil {
		return nil, storeErr("get user", err)
	}

	// First pass: expenses the user paid for.
	owedToUser, err := l.store.ListDebtsOwedTo(ctx, userID)
	if err != nil {
		return nil, storeErr("list debts owed to user", err)
	}
	// Second pass: expenses the user participates in.
	owedByUser, err := l.store.ListDebtsOwedBy(ctx, userID)
	if err != nil {
		return nil, storeErr("list debts owed by user", err)
	}

	return calculator.CalculateUserDues(userID, owedToUser, owedByUser), nil
}

// GroupBalances returns each member's outstanding net balance within a group
// and a simplified set of payments that would clear them.
func (l *Ledger) GroupBalances(ctx context.Context, groupID string) ([]calculator.MemberBalance, []calculator.DebtEdge, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, nil, storeErr("get group", err)
	}
	debts, err := l.store.ListGroupDebts(ctx, groupID)
	if err != nil {
		return nil, nil, storeErr("list group debts", err)
	}
	balances, edges := calculator.CalculateGroupBalances(debts)
	return balances, edges, nil
}
