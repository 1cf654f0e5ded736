// Package metrics defines and registers all custom Prometheus metrics for the
// postboard API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors are registered with the default Prometheus registry on package
// initialisation; the /metrics endpoint exposes them next to the HTTP metrics
// collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "postboard"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests refused by the auth middleware.
// Label:
//   - stage: where the request failed ("missing_token", "malformed_header",
//     "invalid_token", "unknown_user")
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of protected requests rejected before reaching a handler.",
	},
	[]string{"stage"},
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

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate", "mismatch" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// CommentMutationsTotal counts successful comment writes.
// Label:
//   - op: "upsert" or "delete"
var CommentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comment_mutations_total",
		Help:      "Total number of comment upserts and deletions.",
	},
	[]string{"op"},
)

// PostCacheLookupsTotal counts post cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var PostCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_cache_lookups_total",
		Help:      "Total number of post cache lookups, labelled by result.",
	},
	[]string{"result"},
)
