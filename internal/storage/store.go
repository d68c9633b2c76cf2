// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Queries is the set of statements the ledger runs against a backend.
// Both a Store and the Queries handed to WithTx implement it, so the same
// code path works inside and outside a database transaction.
//
// Lookups of missing rows return an error wrapping models.ErrNotFound.
type Queries interface {
	// CreateUser persists a new user. ID and CreatedAt are generated when empty.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateGroup persists a new group and its members. ID and CreatedAt are
	// generated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// AddGroupMembers adds users to a group, ignoring existing members.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// InsertExpense persists the expense header only; shares are inserted
	// separately with InsertShare.
	InsertExpense(ctx context.Context, expense *models.Expense) error
	// UpdateExpense rewrites the mutable header fields (amount, payer,
	// description, tag).
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	// GetExpense returns the header and all shares, ordered by user ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// ListExpensesByGroup returns a group's expenses, newest first, with shares.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	InsertShare(ctx context.Context, share models.Share) error
	UpdateShare(ctx context.Context, share models.Share) error
	DeleteShare(ctx context.Context, expenseID, userID string) error
	DeleteShares(ctx context.Context, expenseID string) error

	InsertTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	DeleteTransactionsByExpense(ctx context.Context, expenseID string) error
	ListTransactionsByExpense(ctx context.Context, expenseID string) ([]*models.Transaction, error)
	// ListTransactionsByUser returns payments where the user is payer or payee.
	// from and to are inclusive Unix timestamps; zero means unbounded.
	ListTransactionsByUser(ctx context.Context, userID string, from, to int64) ([]*models.Transaction, error)

	// ListDebtsOwedTo returns outstanding shares on expenses paid by creditorID.
	ListDebtsOwedTo(ctx context.Context, creditorID string) ([]models.Debt, error)
	// ListDebtsOwedBy returns outstanding shares of debtorID on expenses paid by others.
	ListDebtsOwedBy(ctx context.Context, debtorID string) ([]models.Debt, error)
	// ListGroupDebts returns every outstanding share in a group.
	ListGroupDebts(ctx context.Context, groupID string) ([]models.Debt, error)
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	Queries

	// WithTx runs fn inside a single database transaction. Every statement
	// issued through q is part of it. The transaction commits when fn returns
	// nil and rolls back otherwise; fn's error is returned unchanged.
	WithTx(ctx context.Context, fn func(q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}
