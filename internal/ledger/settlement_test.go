package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestRecordPayment_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.expense(t)

	txn, err := f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: 60})
	require.NoError(t, err)
	assert.Equal(t, f.p, txn.PayeeID, "payee defaults to the expense payer")
	assert.Equal(t, f.now.Unix(), txn.CreatedAt)

	got, err := f.ledger.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	a := share(t, got, f.a)
	assert.Equal(t, models.StatusSettled, a.Status)
	assert.Equal(t, 0.0, a.Owed)
	b := share(t, got, f.b)
	assert.Equal(t, models.StatusUnsettled, b.Status)
	assert.Equal(t, 40.0, b.Owed)

	dues, err := f.ledger.UserDues(ctx, f.p)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{f.b: 40}, dues)

	settled, err := f.ledger.IsSettled(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, settled)

	_, err = f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.b, PayeeID: f.p, Amount: 40})
	require.NoError(t, err)
	settled, err = f.ledger.IsSettled(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, settled)
}

func TestRecordPayment_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.ledger.CreateExpense(ctx, CreateExpenseInput{
		GroupID: f.group, PayerID: f.p, Amount: 1,
		Shares: map[string]float64{f.p: 0.7, f.a: 0.3},
	})
	require.NoError(t, err)

	for i, wantOwed := range []float64{0.2, 0.1, 0} {
		_, err := f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: 0.1})
		require.NoError(t, err, "payment %d", i)

		got, err := f.ledger.GetExpense(ctx, e.ID)
		require.NoError(t, err)
		a := share(t, got, f.a)
		assert.Equal(t, wantOwed, a.Owed, "payment %d", i)
		if wantOwed == 0 {
			assert.Equal(t, models.StatusSettled, a.Status)
		} else {
			assert.Equal(t, models.StatusPartial, a.Status)
		}
	}
}

func TestRecordPayment_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.expense(t)
	_, err := f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.b, Amount: 40})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   RecordPaymentInput
		wantErr error
	}{
		{"zero amount", RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: 0}, models.ErrValidation},
		{"negative amount", RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: -5}, models.ErrValidation},
		{"missing payer", RecordPaymentInput{ExpenseID: e.ID, Amount: 5}, models.ErrValidation},
		{"overpayment", RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: 60.01}, models.ErrOverpayment},
		{"already settled", RecordPaymentInput{ExpenseID: e.ID, PayerID: f.b, Amount: 1}, models.ErrAlreadySettled},
		{"expense payer owes nothing", RecordPaymentInput{ExpenseID: e.ID, PayerID: f.p, Amount: 1}, models.ErrAlreadySettled},
		{"not a participant", RecordPaymentInput{ExpenseID: e.ID, PayerID: f.c, Amount: 1}, models.ErrValidation},
		{"wrong payee", RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, PayeeID: f.b, Amount: 1}, models.ErrValidation},
		{"unknown expense", RecordPaymentInput{ExpenseID: "E-missing", PayerID: f.a, Amount: 1}, models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.RecordPayment(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := f.ledger.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, share(t, got, f.a).Owed, "rejected payments change nothing")
}

func TestReversePayment_InverseOfRecord(t *testing.T) {
	tests := []struct {
		name    string
		earlier []float64
		amount  float64
	}{
		{"from unsettled", nil, 25.55},
		{"from partial", []float64{20}, 15},
		{"from settled", []float64{35.5}, 24.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			e := f.expense(t)
			for _, amount := range tt.earlier {
				_, err := f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: amount})
				require.NoError(t, err)
			}
			before, err := f.ledger.GetExpense(ctx, e.ID)
			require.NoError(t, err)

			txn, err := f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: tt.amount})
			require.NoError(t, err)
			restored, err := f.ledger.ReversePayment(ctx, txn.ID)
			require.NoError(t, err)

			after, err := f.ledger.GetExpense(ctx, e.ID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Equal(t, share(t, before, f.a), restored)

			_, err = f.ledger.GetTransaction(ctx, txn.ID)
			assert.ErrorIs(t, err, models.ErrNotFound)
			_, err = f.ledger.ReversePayment(ctx, txn.ID)
			assert.ErrorIs(t, err, models.ErrNotFound)
		})
	}
}

func TestReversePayment_MovesSettledBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.expense(t)

	first, err := f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: 45})
	require.NoError(t, err)
	_, err = f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: f.a, Amount: 15})
	require.NoError(t, err)

	s, err := f.ledger.ReversePayment(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 45.0, s.Owed)
	assert.Equal(t, models.StatusPartial, s.Status)
}

func TestListTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.expense(t)

	start := f.now
	var ids []string
	for _, payer := range []string{f.a, f.b, f.a} {
		txn, err := f.ledger.RecordPayment(ctx, RecordPaymentInput{ExpenseID: e.ID, PayerID: payer, Amount: 5})
		require.NoError(t, err)
		ids = append(ids, txn.ID)
		f.now = f.now.Add(time.Hour)
	}

	byExpense, err := f.ledger.ListExpenseTransactions(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, byExpense, 3)
	assert.Equal(t, ids[0], byExpense[0].ID)

	byA, err := f.ledger.ListUserTransactions(ctx, f.a, 0, 0)
	require.NoError(t, err)
	require.Len(t, byA, 2)
	assert.Equal(t, ids[2], byA[0].ID, "newest first")

	byP, err := f.ledger.ListUserTransactions(ctx, f.p, start.Add(time.Hour).Unix(), start.Add(time.Hour).Unix())
	require.NoError(t, err)
	require.Len(t, byP, 1)
	assert.Equal(t, ids[1], byP[0].ID)

	_, err = f.ledger.ListUserTransactions(ctx, f.a, 10, 5)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.ledger.ListUserTransactions(ctx, "ghost", 0, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.ledger.ListExpenseTransactions(ctx, "E-missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
