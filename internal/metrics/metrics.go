package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Histogram: HTTP latency of our own endpoints in seconds.
	HTTPLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "translate_http_latency_seconds",
			Help:    "HTTP request latency of the translation service in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"route", "method", "status_code"},
	)

	// Histogram: DeepSeek round-trip latency, labelled by outcome kind ("ok" on success).
	UpstreamLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deepseek_request_duration_seconds",
			Help:    "Latency of DeepSeek chat-completion calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"model", "outcome"},
	)

	// Counter: chunk outcomes ("ok", "fallback", "failed").
	ChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translate_chunks_total",
			Help: "Total number of chunk requests by outcome.",
		},
		[]string{"outcome"},
	)

	// Counter: per-string fallback outcomes ("translated", "original").
	FallbackStringsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translate_fallback_strings_total",
			Help: "Total number of strings translated one by one after a chunk failed to parse.",
		},
		[]string{"outcome"},
	)

	// Histogram: batch sizes accepted by TranslateBatch.
	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "translate_batch_size",
			Help:    "Number of strings per accepted batch.",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 80, 100},
		},
	)

	// Counter: bulk suggestion results ("added", "api_error", "insert_error", "skipped").
	BulkResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translate_bulk_results_total",
			Help: "Total number of bulk-translated originals by result.",
		},
		[]string{"result"},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		HTTPLatencySeconds,
		UpstreamLatencySeconds,
		ChunksTotal,
		FallbackStringsTotal,
		BatchSize,
		BulkResultsTotal,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures latency for each HTTP request. Requests are labelled
// with the chi route pattern so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// capture status code
		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		HTTPLatencySeconds.
			WithLabelValues(route, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
