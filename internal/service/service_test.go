package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlstore"
)

type testClients struct {
	expenses  *ExpenseServiceClient
	directory *DirectoryServiceClient
}

// setupTestServer creates a test server with both services.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	store, err := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	l := ledger.New(store)

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor())
	expensePath, expenseHandler := NewExpenseServiceHandler(NewExpenseService(l), interceptors)
	directoryPath, directoryHandler := NewDirectoryServiceHandler(NewDirectoryService(l), interceptors)

	mux := http.NewServeMux()
	mux.Handle(expensePath, expenseHandler)
	mux.Handle(directoryPath, directoryHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		expenses:  NewExpenseServiceClient(http.DefaultClient, server.URL),
		directory: NewDirectoryServiceClient(http.DefaultClient, server.URL),
	}
}

// seedGroup creates users p, a and b in one group.
func seedGroup(t *testing.T, c testClients) (groupID, p, a, b string) {
	t.Helper()
	ctx := context.Background()

	ids := make([]string, 3)
	for i, name := range []string{"p", "a", "b"} {
		resp, err := c.directory.CreateUser(ctx, connect.NewRequest(&CreateUserRequest{
			Name:  name,
			Email: name + "@example.com",
		}))
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		ids[i] = resp.Msg.User.ID
	}

	resp, err := c.directory.CreateGroup(ctx, connect.NewRequest(&CreateGroupRequest{
		Name:    "Roommates",
		Members: ids,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group.ID, ids[0], ids[1], ids[2]
}

func TestDirectory(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID, p, _, _ := seedGroup(t, c)

	getResp, err := c.directory.GetGroup(ctx, connect.NewRequest(&GetGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if getResp.Msg.Group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", getResp.Msg.Group.Name)
	}
	if len(getResp.Msg.Group.Members) != 3 {
		t.Errorf("members: expected 3, got %d", len(getResp.Msg.Group.Members))
	}
	if getResp.Msg.Group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}

	userResp, err := c.directory.GetUser(ctx, connect.NewRequest(&GetUserRequest{Email: "p@example.com"}))
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if userResp.Msg.User.ID != p {
		t.Errorf("expected user %s, got %s", p, userResp.Msg.User.ID)
	}

	newUser, err := c.directory.CreateUser(ctx, connect.NewRequest(&CreateUserRequest{Name: "c", Email: "c@example.com"}))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	addResp, err := c.directory.AddGroupMembers(ctx, connect.NewRequest(&AddGroupMembersRequest{
		GroupID: groupID,
		UserIDs: []string{newUser.Msg.User.ID},
	}))
	if err != nil {
		t.Fatalf("AddGroupMembers failed: %v", err)
	}
	if len(addResp.Msg.Group.Members) != 4 {
		t.Errorf("members: expected 4, got %d", len(addResp.Msg.Group.Members))
	}

	_, err = c.directory.GetGroup(ctx, connect.NewRequest(&GetGroupRequest{GroupID: "nonexistent"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
	_, err = c.directory.CreateUser(ctx, connect.NewRequest(&CreateUserRequest{Name: "dup", Email: "p@example.com"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for duplicate email, got %v", err)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID, p, a, b := seedGroup(t, c)

	createResp, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&CreateExpenseRequest{
		GroupID: groupID,
		PayerID: p,
		Amount:  100,
		Shares:  map[string]float64{p: 0, a: 60, b: 40},
		Tag:     "food",
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	expense := createResp.Msg.Expense
	if expense.ID == "" || expense.ID[0] != 'E' {
		t.Errorf("unexpected expense ID %q", expense.ID)
	}
	if len(expense.Shares) != 3 {
		t.Fatalf("shares: expected 3, got %d", len(expense.Shares))
	}
	if expense.Settled {
		t.Error("new expense should not be settled")
	}

	payResp, err := c.expenses.RecordPayment(ctx, connect.NewRequest(&RecordPaymentRequest{
		ExpenseID: expense.ID,
		PayerID:   a,
		Amount:    60,
	}))
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if payResp.Msg.Transaction.PayeeID != p {
		t.Errorf("payee: expected %s, got %s", p, payResp.Msg.Transaction.PayeeID)
	}

	duesResp, err := c.expenses.GetUserDues(ctx, connect.NewRequest(&GetUserDuesRequest{UserID: p}))
	if err != nil {
		t.Fatalf("GetUserDues failed: %v", err)
	}
	if len(duesResp.Msg.Dues) != 1 || duesResp.Msg.Dues[b] != 40 {
		t.Errorf("dues: expected {b: 40}, got %v", duesResp.Msg.Dues)
	}

	balResp, err := c.expenses.GetGroupBalances(ctx, connect.NewRequest(&GetGroupBalancesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	if len(balResp.Msg.Debts) != 1 || balResp.Msg.Debts[0].FromUserID != b || balResp.Msg.Debts[0].Amount != 40 {
		t.Errorf("unexpected debts: %+v", balResp.Msg.Debts)
	}

	_, err = c.expenses.RecordPayment(ctx, connect.NewRequest(&RecordPaymentRequest{
		ExpenseID: expense.ID,
		PayerID:   b,
		Amount:    41,
	}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition for overpayment, got %v", err)
	}

	txnsResp, err := c.expenses.ListExpenseTransactions(ctx, connect.NewRequest(&ListExpenseTransactionsRequest{ExpenseID: expense.ID}))
	if err != nil {
		t.Fatalf("ListExpenseTransactions failed: %v", err)
	}
	if len(txnsResp.Msg.Transactions) != 1 {
		t.Fatalf("transactions: expected 1, got %d", len(txnsResp.Msg.Transactions))
	}

	userTxns, err := c.expenses.ListUserTransactions(ctx, connect.NewRequest(&ListUserTransactionsRequest{UserID: a}))
	if err != nil {
		t.Fatalf("ListUserTransactions failed: %v", err)
	}
	if len(userTxns.Msg.Transactions) != 1 {
		t.Errorf("user transactions: expected 1, got %d", len(userTxns.Msg.Transactions))
	}

	reverseResp, err := c.expenses.ReversePayment(ctx, connect.NewRequest(&ReversePaymentRequest{
		TransactionID: payResp.Msg.Transaction.ID,
	}))
	if err != nil {
		t.Fatalf("ReversePayment failed: %v", err)
	}
	if reverseResp.Msg.Share.Owed != 60 || reverseResp.Msg.Share.Status != "NO" {
		t.Errorf("unexpected restored share: %+v", reverseResp.Msg.Share)
	}

	amount := 90.0
	editResp, err := c.expenses.EditExpense(ctx, connect.NewRequest(&EditExpenseRequest{
		ExpenseID: expense.ID,
		Amount:    &amount,
		Split:     &SplitSpec{Policy: "equal", Participants: []string{p, a, b}},
	}))
	if err != nil {
		t.Fatalf("EditExpense failed: %v", err)
	}
	for _, s := range editResp.Msg.Expense.Shares {
		if s.Amount != 30 {
			t.Errorf("share of %s: expected 30, got %v", s.UserID, s.Amount)
		}
	}

	_, err = c.expenses.EditExpense(ctx, connect.NewRequest(&EditExpenseRequest{
		ExpenseID: expense.ID,
		PayerID:   &a,
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for payer change without split, got %v", err)
	}

	listResp, err := c.expenses.ListGroupExpenses(ctx, connect.NewRequest(&ListGroupExpensesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ListGroupExpenses failed: %v", err)
	}
	if len(listResp.Msg.Expenses) != 1 {
		t.Errorf("expenses: expected 1, got %d", len(listResp.Msg.Expenses))
	}

	if _, err := c.expenses.DeleteExpense(ctx, connect.NewRequest(&DeleteExpenseRequest{ExpenseID: expense.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	_, err = c.expenses.GetExpense(ctx, connect.NewRequest(&GetExpenseRequest{ExpenseID: expense.ID}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestCreateExpense_InvalidSplit(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID, p, a, _ := seedGroup(t, c)

	tests := []struct {
		name string
		req  *CreateExpenseRequest
	}{
		{"shares do not sum", &CreateExpenseRequest{GroupID: groupID, PayerID: p, Amount: 10, Shares: map[string]float64{p: 1, a: 1}}},
		{"unknown policy", &CreateExpenseRequest{GroupID: groupID, PayerID: p, Amount: 10, Split: &SplitSpec{Policy: "random", Participants: []string{p, a}}}},
		{"negative amount", &CreateExpenseRequest{GroupID: groupID, PayerID: p, Amount: -1, Shares: map[string]float64{p: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(tt.req))
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestPreviewSplit(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.expenses.PreviewSplit(context.Background(), connect.NewRequest(&PreviewSplitRequest{
		Amount: 100,
		Split:  SplitSpec{Policy: "shares", Participants: []string{"A", "B"}, Params: []float64{1, 3}},
	}))
	if err != nil {
		t.Fatalf("PreviewSplit failed: %v", err)
	}
	if resp.Msg.Shares["A"] != 25 || resp.Msg.Shares["B"] != 75 {
		t.Errorf("unexpected shares: %v", resp.Msg.Shares)
	}

	_, err = c.expenses.PreviewSplit(context.Background(), connect.NewRequest(&PreviewSplitRequest{
		Amount: 100,
		Split:  SplitSpec{Policy: "unequal", Participants: []string{"A", "B"}, Params: []float64{50}},
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}
