// Package telemetry provides application-level observability for the annuaire backend.
//
// All metrics are registered against the default Prometheus registry and served on
// the side-channel HTTP server started by main.go:
//
//	GET http://<host>:<ANU_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090. The endpoint is not part of the Gin router so it stays off
// the public ingress and is never rate limited.
//
// HTTP metrics use c.FullPath() (route template such as /api/v1/organigrammes/:id)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments.
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - p99 latency per route:             histogram_quantile(0.99, sum by (path, le) (rate(http_request_duration_seconds_bucket[5m])))
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Organigramme metrics — recorded by the organigramme service.
//
// OrganigrammesGeneratedTotal counts snapshot rows created, by academic year id.
// TreeBuildDuration observes one full tree reconstruction (entity load, linking,
// responsable attachment). Trees are rebuilt on every read, so this histogram is
// the first place to look if directory reads slow down as entity counts grow.
//
// Example PromQL queries:
//   - Generation rate per year:  sum by (annee) (rate(organigrammes_generated_total[1h]))
//   - p95 tree build time:       histogram_quantile(0.95, rate(tree_build_duration_seconds_bucket[15m]))
var (
	OrganigrammesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organigrammes_generated_total",
			Help: "Total number of organigramme snapshots generated, by academic year.",
		},
		[]string{"annee"},
	)

	TreeBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tree_build_duration_seconds",
			Help:    "Duration of a single organigramme tree reconstruction.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// AuditWriteFailuresTotal counts audit log writes that were swallowed after an
// error. Audit failures never propagate to the caller, so this counter is the
// only visible signal that the trail is incomplete.
var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "audit_write_failures_total",
		Help: "Total number of audit log writes that failed and were dropped.",
	},
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool. It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds until stop is closed.
func StartDBStatsCollector(db *sql.DB, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				DBOpenConnections.Set(float64(db.Stats().OpenConnections))
			case <-stop:
				slog.Debug("db stats collector stopped")
				return
			}
		}
	}()
}
