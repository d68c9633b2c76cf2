package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the split engine, the ledger and the stores.
// Callers match with errors.Is; every error returned by the ledger wraps
// exactly one of these.
var (
	// ErrValidation covers bad amounts, missing references and payers that
	// are not part of the split.
	ErrValidation = errors.New("validation failed")

	// ErrSplitMismatch means the shares do not add up to the expense total.
	ErrSplitMismatch = errors.New("split does not sum to the expense amount")

	// ErrInvalidSplitParameters means the policy parameters have the wrong
	// count or shape.
	ErrInvalidSplitParameters = errors.New("invalid split parameters")

	// ErrOverpayment means a payment exceeds what the participant owes.
	ErrOverpayment = errors.New("payment exceeds the amount owed")

	// ErrAlreadySettled means the participant owes nothing on the expense.
	ErrAlreadySettled = errors.New("share already settled")

	// ErrNotFound means an expense, transaction, user or group is missing.
	ErrNotFound = errors.New("not found")

	// ErrPersistence wraps failures of the underlying store. The enclosing
	// database transaction has always been rolled back.
	ErrPersistence = errors.New("persistence failure")
)

var (
	// ErrEmptyParticipants is a validation error for splits without participants.
	ErrEmptyParticipants = fmt.Errorf("%w: participants cannot be empty", ErrValidation)

	// ErrPayerChangeRequiresSplit is a validation error raised when an edit
	// changes the payer without providing a new split.
	ErrPayerChangeRequiresSplit = fmt.Errorf("%w: payer changed but no new split provided", ErrValidation)
)

// NotFoundError returns an ErrNotFound for the given kind and ID.
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
