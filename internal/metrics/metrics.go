// Package metrics defines and registers the Prometheus metrics of the admin
// service. Metrics are registered with the default registry on import and
// exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sqladmin"

// HTTPRequestsTotal counts handled HTTP requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/admin/:identity/list"), "unmatched" for 404s
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// AdminActionsTotal counts successful write actions on the admin screens.
// Labels:
//   - identity: view identity (e.g. "user", "site")
//   - action: "create", "edit" or "delete"
var AdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_actions_total",
		Help:      "Total number of admin write actions, by view and action.",
	},
	[]string{"identity", "action"},
)

// SeedRunsTotal counts seed routine outcomes.
// Label:
//   - result: "created", "exists" or "error"
var SeedRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seed_runs_total",
		Help:      "Total number of default user seed runs, by result.",
	},
	[]string{"result"},
)
