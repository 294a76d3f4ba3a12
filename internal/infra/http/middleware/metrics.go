package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	preliminariesCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preliminaries_captured_total",
			Help: "Total number of capture calls by outcome",
		},
		[]string{"status"},
	)

	preliminariesReleased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preliminaries_released_total",
			Help: "Total number of release calls by outcome",
		},
		[]string{"status"},
	)

	preliminariesSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "preliminaries_swept_total",
			Help: "Total number of preliminaries removed by the retention sweeper",
		},
	)

	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preliminaries_store_errors_total",
			Help: "Total number of record store failures",
		},
		[]string{"op"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// O padrão da rota evita uma série por URL real.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordCapture(status string) {
	preliminariesCaptured.WithLabelValues(status).Inc()
}

func RecordRelease(status string) {
	preliminariesReleased.WithLabelValues(status).Inc()
}

func RecordSwept(n int64) {
	if n > 0 {
		preliminariesSwept.Add(float64(n))
	}
}

func RecordStoreError(op string) {
	storeErrors.WithLabelValues(op).Inc()
}
