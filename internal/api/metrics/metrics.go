// Package metrics defines and registers the custom Prometheus metrics of the
// staff auth API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "staffauth"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests refused by authentication or authorization.
// Label:
//   - reason: "token_invalid", "insufficient_scope", "session_superseded",
//     "forbidden_root_delete" or "forbidden_self_delete"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the access gate.",
	},
	[]string{"reason"},
)

// ── User administration metrics ───────────────────────────────────────────────

// UsersCreatedTotal counts accounts created through the admin API.
// Label:
//   - role: the role assigned to the new account
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts accounts removed through the admin API.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted.",
	},
)
