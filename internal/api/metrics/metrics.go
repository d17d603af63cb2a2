// Package metrics defines the custom Prometheus metrics of the pool registry
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pool_registry"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts self-registered admin accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of self-registered accounts.",
	},
)

// MembersCreatedTotal counts member accounts provisioned by admins.
var MembersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "members_created_total",
		Help:      "Total number of member accounts created by admins.",
	},
)

// ── Pool metrics ──────────────────────────────────────────────────────────────

// PoolMutationsTotal counts successful pool writes.
// Label:
//   - op: "create", "update" or "delete"
var PoolMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pool_mutations_total",
		Help:      "Total number of successful pool record writes, by operation.",
	},
	[]string{"op"},
)
