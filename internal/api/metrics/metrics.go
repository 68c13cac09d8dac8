// Package metrics defines and registers all custom Prometheus metrics for the
// Radar Hub API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "radarhub"

// ── Identity metrics ──────────────────────────────────────────────────────────

// CodesRequestedTotal counts login code requests.
// Labels:
//   - intent: "LOGIN" or "REGISTER"
//   - result: "issued", or the error code returned to the caller
var CodesRequestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_requested_total",
		Help:      "Total number of one-time code requests.",
	},
	[]string{"intent", "result"},
)

// CodesVerifiedTotal counts code verification attempts.
// Label:
//   - result: "login", "registered", or the error code
var CodesVerifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_verified_total",
		Help:      "Total number of one-time code verifications, by outcome.",
	},
	[]string{"result"},
)

// ── Case metrics ──────────────────────────────────────────────────────────────

// CasesSubmittedTotal counts newly opened cases.
// Label:
//   - type: the case type (e.g. "Suspensão")
var CasesSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cases_submitted_total",
		Help:      "Total number of cases submitted, by type.",
	},
	[]string{"type"},
)

// ClaimsTotal counts claim attempts.
// Label:
//   - result: "won", "not_claimable", "not_verified", or "error"
var ClaimsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claims_total",
		Help:      "Total number of claim attempts, by result.",
	},
	[]string{"result"},
)

// StatusUpdatesTotal counts accepted status reports.
// Label:
//   - status: the lifecycle state after the update
var StatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_updates_total",
		Help:      "Total number of recorded case status updates, by resulting status.",
	},
	[]string{"status"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsPublishedTotal counts hand-offs to the notification pipeline.
// Labels:
//   - kind: notification kind (e.g. "sms:otp")
//   - result: "queued", "duplicate", "dropped", "invalid", or "error"
var NotificationsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Total number of notifications published, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NotificationsDeliveredTotal counts final delivery attempts.
// Labels:
//   - kind: notification kind
//   - result: "ok" or "error"
var NotificationsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total number of notification deliveries, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NotificationQueueDepth tracks pending notifications per in-process worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RequestDuration measures domain operation latency as seen by handlers.
// Label:
//   - operation: handler operation name (e.g. "claim")
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of domain operations invoked through the API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
