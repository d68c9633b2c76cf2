package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestCalculateUserDues(t *testing.T) {
	owedToP := []models.Debt{
		{ExpenseID: "E1", DebtorID: "B", CreditorID: "P", Owed: 40},
		{ExpenseID: "E2", DebtorID: "A", CreditorID: "P", Owed: 25},
	}
	owedByP := []models.Debt{
		{ExpenseID: "E3", DebtorID: "P", CreditorID: "A", Owed: 10},
		{ExpenseID: "E4", DebtorID: "P", CreditorID: "C", Owed: 7.5},
	}

	dues := CalculateUserDues("P", owedToP, owedByP)

	assert.Equal(t, map[string]float64{"A": 15, "B": 40, "C": -7.5}, dues)
}

func TestCalculateUserDues_FiltersZeroNet(t *testing.T) {
	dues := CalculateUserDues("P",
		[]models.Debt{{ExpenseID: "E1", DebtorID: "A", CreditorID: "P", Owed: 0.1}, {ExpenseID: "E2", DebtorID: "A", CreditorID: "P", Owed: 0.2}},
		[]models.Debt{{ExpenseID: "E3", DebtorID: "P", CreditorID: "A", Owed: 0.3}},
	)
	assert.Empty(t, dues)
}

func TestCalculateUserDues_IgnoresForeignRows(t *testing.T) {
	dues := CalculateUserDues("P",
		[]models.Debt{
			{ExpenseID: "E1", DebtorID: "P", CreditorID: "P", Owed: 99}, // payer's own row
			{ExpenseID: "E2", DebtorID: "A", CreditorID: "Q", Owed: 5},  // not paid by P
		},
		nil,
	)
	assert.Empty(t, dues)
}

func TestCalculateUserDues_Idempotent(t *testing.T) {
	owedTo := []models.Debt{{ExpenseID: "E1", DebtorID: "B", CreditorID: "P", Owed: 12.34}}
	owedBy := []models.Debt{{ExpenseID: "E2", DebtorID: "P", CreditorID: "C", Owed: 1.11}}

	first := CalculateUserDues("P", owedTo, owedBy)
	second := CalculateUserDues("P", owedTo, owedBy)
	assert.Equal(t, first, second)
}

func TestCalculateGroupBalances(t *testing.T) {
	debts := []models.Debt{
		{ExpenseID: "E1", DebtorID: "Bob", CreditorID: "Alice", Owed: 30},
		{ExpenseID: "E1", DebtorID: "Charlie", CreditorID: "Alice", Owed: 30},
		{ExpenseID: "E2", DebtorID: "Alice", CreditorID: "Bob", Owed: 10},
	}

	balances, edges := CalculateGroupBalances(debts)

	require.Len(t, balances, 3)
	byID := make(map[string]MemberBalance)
	for _, b := range balances {
		byID[b.UserID] = b
	}
	assert.InDelta(t, 50, byID["Alice"].NetBalance, 1e-9)
	assert.InDelta(t, -20, byID["Bob"].NetBalance, 1e-9)
	assert.InDelta(t, -30, byID["Charlie"].NetBalance, 1e-9)
	assert.InDelta(t, 60, byID["Alice"].Receivable, 1e-9)
	assert.InDelta(t, 10, byID["Alice"].Payable, 1e-9)

	// Largest debtor is matched first.
	require.Len(t, edges, 2)
	assert.Equal(t, DebtEdge{From: "Charlie", To: "Alice", Amount: 30}, edges[0])
	assert.Equal(t, DebtEdge{From: "Bob", To: "Alice", Amount: 20}, edges[1])
}

func TestCalculateGroupBalances_Empty(t *testing.T) {
	balances, edges := CalculateGroupBalances(nil)
	assert.Empty(t, balances)
	assert.Empty(t, edges)
}
