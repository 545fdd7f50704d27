// Package metrics defines and registers all custom Prometheus metrics for the
// wallet service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wallet"

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionsTotal counts committed transactions.
// Label:
//   - type: "deposit" or "transfer"
var TransactionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_total",
		Help:      "Total number of committed transactions, by type.",
	},
	[]string{"type"},
)

// TransactionAmount observes committed amounts in currency units.
var TransactionAmount = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transaction_amount",
		Help:      "Committed transaction amounts, by type.",
		Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000},
	},
	[]string{"type"},
)

// TransactionRejectionsTotal counts deposits and transfers refused by a rule.
// Labels:
//   - type: "deposit" or "transfer"
//   - reason: short rule name (e.g. "insufficient_funds", "exceeds_limit")
var TransactionRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_rejections_total",
		Help:      "Total number of rejected transactions, by type and reason.",
	},
	[]string{"type", "reason"},
)

// RegistrationsTotal counts new identities.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered identities.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts publish attempts of transaction events.
// Label:
//   - result: "success" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of transaction events handed to the publisher, by result.",
	},
	[]string{"result"},
)

// EventsDroppedTotal counts events discarded because a worker queue was full
// or the dispatcher was stopped.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of transaction events dropped before publishing.",
	},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures how long a single publish takes.
var EventPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Duration of publishing one transaction event.",
		Buckets:   prometheus.DefBuckets,
	},
)
