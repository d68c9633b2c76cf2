package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
)

// toConnectError maps ledger errors to Connect codes. Failures are logged
// once, by the logging interceptor, which also has the code and request ID.
func toConnectError(op string, err error) error {
	return connect.NewError(errorCode(err), fmt.Errorf("%s: %w", op, err))
}

func errorCode(err error) connect.Code {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, models.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, models.ErrOverpayment), errors.Is(err, models.ErrAlreadySettled):
		return connect.CodeFailedPrecondition
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrSplitMismatch),
		errors.Is(err, models.ErrInvalidSplitParameters):
		return connect.CodeInvalidArgument
	}
	return connect.CodeInternal
}
