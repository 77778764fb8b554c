// Package metrics defines the custom Prometheus metrics of the CobranzaCloud
// API. HTTP request metrics come from the echoprometheus middleware; the
// collectors here cover auth, sync, cache and audit behaviour.
//
// All collectors register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cobranza"

// ── Auth ──────────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "locked" or "disabled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh-token redemptions.
// Labels:
//   - owner: "user" or "connector"
//   - result: "rotated", "invalid" or "reuse_detected"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of refresh token redemptions, by owner kind and result.",
	},
	[]string{"owner", "result"},
)

// TokensRevokedTotal counts refresh tokens revoked, by reason.
var TokensRevokedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of refresh tokens revoked, by reason.",
	},
	[]string{"reason"},
)

// ── Connectors ────────────────────────────────────────────────────────────────

var LinkCodesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "link_codes_issued_total",
		Help:      "Total number of connector link codes issued.",
	},
)

// ConnectorRegistrationsTotal counts link-code redemptions.
// Label:
//   - result: "registered" or "rejected"
var ConnectorRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connector_registrations_total",
		Help:      "Total number of connector registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Sync ──────────────────────────────────────────────────────────────────────

// SyncRunsTotal counts sync batches.
// Label:
//   - result: "committed" or "failed"
var SyncRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of cartera sync batches, by result.",
	},
	[]string{"result"},
)

// SyncClientesTotal counts reconciled clients.
// Label:
//   - outcome: "nuevo", "modificado" or "sin_cambios"
var SyncClientesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_clientes_total",
		Help:      "Total number of clients reconciled by sync, by outcome.",
	},
	[]string{"outcome"},
)

var SyncDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Duration of a cartera sync batch including the commit.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Cache ─────────────────────────────────────────────────────────────────────

// CacheRequestsTotal counts cache-aside lookups.
// Labels:
//   - resource: "resumen", "antiguedad", "clientes" or "cliente"
//   - result: "hit", "miss" or "error"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of cache lookups, by resource and result.",
	},
	[]string{"resource", "result"},
)

// ── Audit ─────────────────────────────────────────────────────────────────────

// AuditQueueDepth tracks pending audit events per dispatcher worker.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped because a worker queue was full.",
	},
)
