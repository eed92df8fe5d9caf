// Package metrics defines and registers all custom Prometheus metrics for the
// snippet API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/snipbox/snippet-api/internal/core/ports"
)

const namespace = "snipbox"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts every decision taken by the authorization engine.
// Labels:
//   - action: the action kind (e.g. "update_snippet")
//   - effect: "allow" or "deny"
//   - reason: "none", "unauthenticated", "forbidden", "not_found" or "token_expired"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by action, effect and reason.",
	},
	[]string{"action", "effect", "reason"},
)

// AuthzFieldsDroppedTotal counts update fields stripped from an allowed update.
// Label:
//   - field: the dropped account field (currently only "role")
var AuthzFieldsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_fields_dropped_total",
		Help:      "Total number of requested update fields dropped by the authorization engine.",
	},
	[]string{"field"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of decision records waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of decision records pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts records discarded because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of decision records dropped because the audit queue was full.",
	},
)

// AuditWriteErrorsTotal counts records the audit store failed to persist.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of decision records that failed to persist.",
	},
)

// AuditWriteDuration measures a single audit insert.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single decision record insert.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// AccountsCreatedTotal counts registered accounts.
// Label:
//   - role: the account type name (e.g. "User", "Admin")
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created, by account type.",
	},
	[]string{"role"},
)

// SnippetsCreatedTotal counts created snippets.
var SnippetsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snippets_created_total",
		Help:      "Total number of snippets created.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// DecisionRecorder feeds authorization decisions into AuthzDecisionsTotal.
type DecisionRecorder struct{}

func (DecisionRecorder) Record(rec ports.DecisionRecord) {
	d := rec.Decision
	AuthzDecisionsTotal.WithLabelValues(d.Kind.String(), d.Effect.String(), d.Reason.String()).Inc()
	for _, f := range d.Dropped {
		AuthzFieldsDroppedTotal.WithLabelValues(string(f)).Inc()
	}
}
