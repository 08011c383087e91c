// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitledger"

var (
	// RPCRequests counts finished RPCs by procedure and Connect code ("ok" on success).
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Number of RPCs handled, by procedure and result code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes RPC latency by procedure.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// BalanceCalculations counts balance folds by scope ("group" or "all").
	BalanceCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_calculations_total",
		Help:      "Number of balance calculations, by scope.",
	}, []string{"scope"})

	// SettlementPlanPayments observes how many payments each plan suggests.
	SettlementPlanPayments = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_plan_payments",
		Help:      "Payments per generated settlement plan.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	// ConsistencyWarnings counts plans whose balances did not net to zero.
	ConsistencyWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consistency_warnings_total",
		Help:      "Settlement plans built from balances that did not sum to zero.",
	})

	// SettlementAdvisories counts advisories raised while recording settlements, by kind.
	SettlementAdvisories = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlement_advisories_total",
		Help:      "Advisories raised for proposed settlements, by kind.",
	}, []string{"kind"})

	// EventPublishFailures counts events that could not be published, by type.
	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_publish_failures_total",
		Help:      "Events dropped because publishing failed.",
	}, []string{"type"})
)

// Scope returns the label for a balance calculation over groupID.
func Scope(groupID string) string {
	if groupID == "" {
		return "all"
	}
	return "group"
}
