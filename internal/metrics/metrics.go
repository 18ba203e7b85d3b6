// Package metrics defines the Prometheus collectors exported by the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groupledger"

// Metrics holds every collector the ledger updates.
type Metrics struct {
	ExpensesCreated    *prometheus.CounterVec
	ExpensesDeleted    prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	BalanceDuration    *prometheus.HistogramVec
	RPCDuration        *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ExpensesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Expenses recorded, by split mode.",
		}, []string{"mode"}),
		ExpensesDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_deleted_total",
			Help:      "Expenses deleted together with their debt lines.",
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected writes, by offending field.",
		}, []string{"field"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_transitions_total",
			Help:      "Resolve and settle requests, by target and outcome (applied or noop).",
		}, []string{"target", "outcome"}),
		BalanceDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_duration_seconds",
			Help:      "Time spent loading a snapshot and reducing it.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"reduction"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency, by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}
