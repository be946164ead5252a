// Package metrics provides Prometheus instrumentation for the
// reconciliation engine.
//
// Key metrics:
//   - Source fetch throughput, retries, and fail-soft degradations
//   - Reconciliation counts and latency
//   - Cost-basis attribution anomalies (unmatched sells)
//   - HTTP request counts and latency on the serving surface
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PagesFetched counts successfully fetched pages per source.
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pnl_source_pages_fetched_total",
		Help: "Pages successfully fetched from upstream sources",
	}, []string{"source"})

	// FetchFailures counts pages that failed after exhausting retries,
	// degrading the fetch to a partial dataset.
	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pnl_source_fetch_failures_total",
		Help: "Page fetches that failed after retries (partial dataset returned)",
	}, []string{"source"})

	// RetriesTotal counts retry attempts against upstream sources.
	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pnl_source_retries_total",
		Help: "Retry attempts after transient upstream failures",
	})

	// ReconciliationsTotal counts completed reconciliation requests.
	ReconciliationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pnl_reconciliations_total",
		Help: "Completed reconciliation requests",
	})

	// ReconciliationDuration tracks end-to-end reconciliation latency.
	ReconciliationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pnl_reconciliation_duration_seconds",
		Help:    "End-to-end reconciliation latency in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	// UnmatchedSells counts SELL trades with no matching buy inventory.
	// A rising rate means observable history starts after the user's
	// first buys.
	UnmatchedSells = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pnl_unmatched_sells_total",
		Help: "SELL trades left unattributed for lack of buy inventory",
	})

	// CacheHits and CacheMisses track the result cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pnl_result_cache_hits_total",
		Help: "Reconciliation results served from cache",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pnl_result_cache_misses_total",
		Help: "Reconciliation requests that missed the cache",
	})

	// WebSocketClients tracks connected dashboard subscribers.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pnl_websocket_clients",
		Help: "Number of connected WebSocket subscribers",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pnl_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pnl_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)

		// Label with the route pattern, not the raw path: paths carry
		// per-user addresses and would mint unbounded label series.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
