// Package metrics exposes Prometheus counters for reconciliation activity
// and HTTP request latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "posrecon"

var ReportsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "reports",
	Name:      "submitted_total",
	Help:      "Reports accepted by the report store, by source and payment method.",
}, []string{"source", "method"})

var SubmissionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "reports",
	Name:      "submission_failures_total",
	Help:      "Report submissions that failed, by reason.",
}, []string{"reason"})

var SessionsCommitted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "sessions_committed_total",
	Help:      "Reconciliation sessions committed.",
})

var RowsImported = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "import",
	Name:      "rows_total",
	Help:      "Spreadsheet rows accepted on import, by target.",
}, []string{"target"})

var WorkspacesPruned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "workspace",
	Name:      "pruned_total",
	Help:      "Stale workspaces removed by the prune job.",
})

var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route template and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
