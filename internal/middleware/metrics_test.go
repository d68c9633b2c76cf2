package middleware

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	}
	notFound := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	}

	req := connect.NewRequest(&struct{}{})
	interceptor := m.Interceptor()
	for i := 0; i < 2; i++ {
		if _, err := interceptor(ok)(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := interceptor(notFound)(context.Background(), req); connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected not_found to pass through, got %v", err)
	}

	procedure := req.Spec().Procedure
	if got := testutil.ToFloat64(m.requests.WithLabelValues(procedure, "ok")); got != 2 {
		t.Errorf("ok requests: expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(procedure, "not_found")); got != 1 {
		t.Errorf("not_found requests: expected 1, got %v", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Errorf("duration series: expected 1, got %d", got)
	}
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	want := connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, want
	}

	_, err := LoggingInterceptor()(next)(context.Background(), connect.NewRequest(&struct{}{}))
	if err != want {
		t.Errorf("expected the handler error unchanged, got %v", err)
	}
}
