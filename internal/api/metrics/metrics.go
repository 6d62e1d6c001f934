// Package metrics defines and registers all custom Prometheus metrics for the
// users API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// Operation label values.
const (
	OpList   = "list"
	OpSave   = "save"
	OpGet    = "get"
	OpDelete = "delete"
)

// ── User operation metrics ────────────────────────────────────────────────────

// OperationsTotal counts user operations by outcome.
// Labels:
//   - operation: list, save, get, delete
//   - result: "ok", "not_found" (get only) or "error"
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of user operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// StoreDuration measures how long a single repository call takes.
// Label:
//   - operation: list, save, get, delete
var StoreDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_duration_seconds",
		Help:      "Duration of user repository calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts cache lookups on get-by-id.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of user cache lookups, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)
