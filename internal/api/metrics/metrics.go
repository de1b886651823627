// Package metrics defines and registers all custom Prometheus metrics for the
// turnos auth service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "turnos_auth"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by result.
// Label:
//   - outcome: "success", "invalid_credentials", "disabled", "not_found", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AccessDeniedTotal counts authenticated requests rejected for lack of role.
// Label:
//   - method: HTTP method of the rejected request
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authenticated requests denied by authorization.",
	},
	[]string{"method"},
)

// ── Client lifecycle metrics ──────────────────────────────────────────────────

// RegistrationsTotal counts self-registration attempts.
// Label:
//   - outcome: "success", "duplicate", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of client registrations, by outcome.",
	},
	[]string{"outcome"},
)

// LifecycleTransitionsTotal counts activate/deactivate requests.
// Labels:
//   - transition: "activated" or "deactivated"
//   - outcome: "success", "blocked", "not_found", "error"
var LifecycleTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_transitions_total",
		Help:      "Total number of account lifecycle transitions, by outcome.",
	},
	[]string{"transition", "outcome"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by result.
// Label:
//   - result: "written", "failed", "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of account audit events, by result.",
	},
	[]string{"result"},
)

// AuditWriteDuration measures how long persisting a single audit event takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit event persistence from dequeue to write.",
		Buckets:   prometheus.DefBuckets,
	},
)
