// Package ledger records expenses, tracks payments against participant
// shares and computes dues. It owns every multi-statement mutation: each
// public operation validates first and then writes inside one store
// transaction.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ledger is the expense lifecycle manager, settlement tracker and dues
// aggregator on top of a storage.Store.
type Ledger struct {
	store   storage.Store
	now     func() time.Time
	newID   func() string
	metrics *Metrics
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator overrides the generator of the random part of expense and
// transaction IDs.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// WithMetrics records operation outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store returns the underlying store.
func (l *Ledger) Store() storage.Store {
	return l.store
}

func (l *Ledger) expenseID() string {
	return "E" + l.newID()
}

func (l *Ledger) transactionID() string {
	return "T" + l.newID()
}

// domainErrors are passed through storeErr unchanged.
var domainErrors = []error{
	models.ErrValidation,
	models.ErrSplitMismatch,
	models.ErrInvalidSplitParameters,
	models.ErrOverpayment,
	models.ErrAlreadySettled,
	models.ErrNotFound,
	models.ErrPersistence,
}

// storeErr wraps a store failure in ErrPersistence, keeping the driver error
// reachable. Errors already in the taxonomy are returned as is.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}
