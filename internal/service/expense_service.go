package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
)

// ExpenseService implements the Connect ExpenseService on top of a Ledger.
type ExpenseService struct {
	ledger *ledger.Ledger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(l *ledger.Ledger) *ExpenseService {
	return &ExpenseService{ledger: l}
}

// CreateExpense records a new expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"payer_id", req.Msg.PayerID,
		"amount", req.Msg.Amount,
	)

	split, err := toSplitInput(req.Msg.Split)
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}
	expense, err := s.ledger.CreateExpense(ctx, ledger.CreateExpenseInput{
		GroupID:     req.Msg.GroupID,
		PayerID:     req.Msg.PayerID,
		Amount:      req.Msg.Amount,
		Shares:      req.Msg.Shares,
		Split:       split,
		Description: req.Msg.Description,
		Tag:         req.Msg.Tag,
	})
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}

	return connect.NewResponse(&CreateExpenseResponse{Expense: toExpense(expense)}), nil
}

// EditExpense changes an expense and optionally re-splits it.
func (s *ExpenseService) EditExpense(ctx context.Context, req *connect.Request[EditExpenseRequest]) (*connect.Response[EditExpenseResponse], error) {
	slog.Info("EditExpense request received", "expense_id", req.Msg.ExpenseID)

	split, err := toSplitInput(req.Msg.Split)
	if err != nil {
		return nil, toConnectError("EditExpense", err)
	}
	expense, err := s.ledger.EditExpense(ctx, req.Msg.ExpenseID, ledger.EditExpenseInput{
		Amount:      req.Msg.Amount,
		PayerID:     req.Msg.PayerID,
		Description: req.Msg.Description,
		Tag:         req.Msg.Tag,
		Shares:      req.Msg.Shares,
		Split:       split,
	})
	if err != nil {
		return nil, toConnectError("EditExpense", err)
	}

	return connect.NewResponse(&EditExpenseResponse{Expense: toExpense(expense)}), nil
}

// DeleteExpense removes an expense with its shares and payments.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError("DeleteExpense", err)
	}
	return connect.NewResponse(&DeleteExpenseResponse{}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	expense, err := s.ledger.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError("GetExpense", err)
	}
	return connect.NewResponse(&GetExpenseResponse{Expense: toExpense(expense)}), nil
}

// ListGroupExpenses lists a group's expenses, newest first.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, req *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListGroupExpensesResponse], error) {
	expenses, err := s.ledger.ListGroupExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListGroupExpenses", err)
	}

	out := make([]*Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toExpense(e)
	}
	slog.Debug("ListGroupExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))
	return connect.NewResponse(&ListGroupExpensesResponse{Expenses: out}), nil
}

// PreviewSplit computes shares without recording anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	policy, err := calculator.ParsePolicy(req.Msg.Split.Policy)
	if err != nil {
		return nil, toConnectError("PreviewSplit", err)
	}
	shares, err := calculator.Split(req.Msg.Amount, policy, req.Msg.Split.Participants, req.Msg.Split.Params)
	if err != nil {
		return nil, toConnectError("PreviewSplit", err)
	}
	return connect.NewResponse(&PreviewSplitResponse{Shares: shares}), nil
}

// RecordPayment records a payment against a participant's share.
func (s *ExpenseService) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"expense_id", req.Msg.ExpenseID,
		"payer_id", req.Msg.PayerID,
		"amount", req.Msg.Amount,
	)

	txn, err := s.ledger.RecordPayment(ctx, ledger.RecordPaymentInput{
		ExpenseID: req.Msg.ExpenseID,
		PayerID:   req.Msg.PayerID,
		PayeeID:   req.Msg.PayeeID,
		Amount:    req.Msg.Amount,
	})
	if err != nil {
		return nil, toConnectError("RecordPayment", err)
	}
	return connect.NewResponse(&RecordPaymentResponse{Transaction: toTransaction(txn)}), nil
}

// ReversePayment deletes a payment and restores the share it paid down.
func (s *ExpenseService) ReversePayment(ctx context.Context, req *connect.Request[ReversePaymentRequest]) (*connect.Response[ReversePaymentResponse], error) {
	slog.Info("ReversePayment request received", "transaction_id", req.Msg.TransactionID)

	share, err := s.ledger.ReversePayment(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, toConnectError("ReversePayment", err)
	}
	return connect.NewResponse(&ReversePaymentResponse{Share: toShare(share)}), nil
}

// ListExpenseTransactions lists the payments of an expense.
func (s *ExpenseService) ListExpenseTransactions(ctx context.Context, req *connect.Request[ListExpenseTransactionsRequest]) (*connect.Response[ListExpenseTransactionsResponse], error) {
	txns, err := s.ledger.ListExpenseTransactions(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError("ListExpenseTransactions", err)
	}
	return connect.NewResponse(&ListExpenseTransactionsResponse{Transactions: toTransactions(txns)}), nil
}

// ListUserTransactions lists the payments a user made or received.
func (s *ExpenseService) ListUserTransactions(ctx context.Context, req *connect.Request[ListUserTransactionsRequest]) (*connect.Response[ListUserTransactionsResponse], error) {
	txns, err := s.ledger.ListUserTransactions(ctx, req.Msg.UserID, req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, toConnectError("ListUserTransactions", err)
	}
	return connect.NewResponse(&ListUserTransactionsResponse{Transactions: toTransactions(txns)}), nil
}

// GetUserDues returns the user's net balance per counterparty.
func (s *ExpenseService) GetUserDues(ctx context.Context, req *connect.Request[GetUserDuesRequest]) (*connect.Response[GetUserDuesResponse], error) {
	dues, err := s.ledger.UserDues(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError("GetUserDues", err)
	}
	slog.Debug("GetUserDues successful", "user_id", req.Msg.UserID, "counterparties", len(dues))
	return connect.NewResponse(&GetUserDuesResponse{Dues: dues}), nil
}

// GetGroupBalances returns outstanding balances within a group and the
// simplified payments that clear them.
func (s *ExpenseService) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	balances, edges, err := s.ledger.GroupBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetGroupBalances", err)
	}

	resp := &GetGroupBalancesResponse{
		Balances: make([]*MemberBalance, len(balances)),
		Debts:    make([]*Debt, len(edges)),
	}
	for i, b := range balances {
		resp.Balances[i] = &MemberBalance{
			UserID:     b.UserID,
			NetBalance: b.NetBalance,
			Receivable: b.Receivable,
			Payable:    b.Payable,
		}
	}
	for i, e := range edges {
		resp.Debts[i] = &Debt{FromUserID: e.From, ToUserID: e.To, Amount: e.Amount}
	}
	return connect.NewResponse(resp), nil
}
