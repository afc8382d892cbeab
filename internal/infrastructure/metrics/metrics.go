package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	DepositsTotal     prometheus.Counter
	WithdrawalsTotal  prometheus.Counter
	InsufficientFunds prometheus.Counter
	TransactionAmount prometheus.Histogram
	MutationDuration  prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts   *prometheus.CounterVec
	SessionsIssued prometheus.Counter
}

// New creates and registers all Prometheus metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DepositsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "teller_deposits_total",
			Help: "Total number of committed deposits",
		}),
		WithdrawalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "teller_withdrawals_total",
			Help: "Total number of committed withdrawals",
		}),
		InsufficientFunds: factory.NewCounter(prometheus.CounterOpts{
			Name: "teller_insufficient_funds_total",
			Help: "Total number of withdrawals rejected for insufficient funds",
		}),
		TransactionAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "teller_transaction_amount",
			Help:    "Amounts of committed transactions",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		MutationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "teller_mutation_duration_seconds",
			Help:    "Duration of balance mutations including the row lock wait",
			Buckets: prometheus.DefBuckets,
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "teller_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teller_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "teller_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teller_auth_attempts_total",
				Help: "Total authentication attempts by outcome",
			},
			[]string{"status"},
		),
		SessionsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "teller_sessions_issued_total",
			Help: "Total number of sessions issued",
		}),
	}
}
