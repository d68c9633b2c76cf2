package ledger

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/splitledger/internal/models"
)

// Metrics counts ledger mutations by operation and outcome.
type Metrics struct {
	operations *prometheus.CounterVec
	payments   prometheus.Histogram
}

// NewMetrics creates the ledger collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger mutations by operation and result.",
		}, []string{"operation", "result"}),
		payments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Subsystem: "ledger",
			Name:      "payment_amount",
			Help:      "Amounts of recorded payments.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	reg.MustRegister(m.operations, m.payments)
	return m
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result(err)).Inc()
}

func (m *Metrics) observePayment(amount float64) {
	if m == nil {
		return
	}
	m.payments.Observe(amount)
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrPersistence):
		return "persistence_error"
	default:
		return "rejected"
	}
}
