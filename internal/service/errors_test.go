package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{models.ErrEmptyParticipants, connect.CodeInvalidArgument},
		{models.ErrPayerChangeRequiresSplit, connect.CodeInvalidArgument},
		{fmt.Errorf("x: %w", models.ErrSplitMismatch), connect.CodeInvalidArgument},
		{models.ErrInvalidSplitParameters, connect.CodeInvalidArgument},
		{models.ErrOverpayment, connect.CodeFailedPrecondition},
		{models.ErrAlreadySettled, connect.CodeFailedPrecondition},
		{models.NotFoundError("expense", "E1"), connect.CodeNotFound},
		{fmt.Errorf("op: %w: %w", models.ErrPersistence, errors.New("disk full")), connect.CodeInternal},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{errors.New("boom"), connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := errorCode(tt.err); got != tt.want {
				t.Errorf("errorCode(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestToConnectError(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	err := toConnectError("RecordPayment", models.ErrOverpayment)

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected a *connect.Error, got %T", err)
	}
	if connectErr.Code() != connect.CodeFailedPrecondition {
		t.Errorf("code = %v, want %v", connectErr.Code(), connect.CodeFailedPrecondition)
	}
	if !errors.Is(err, models.ErrOverpayment) {
		t.Errorf("expected the ledger error to stay reachable, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, the interceptor logs failures; got %q", buf.String())
	}
}
