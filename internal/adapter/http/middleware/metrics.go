package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// collection names whose following path segment is a resource ID.
var idCollections = map[string]bool{
	"accounts":  true,
	"banks":     true,
	"documents": true,
	"payments":  true,
	"batches":   true,
}

// normalizePath replaces resource IDs with :id to keep label cardinality low.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		if idCollections[segments[i]] && segments[i+1] != "" {
			segments[i+1] = ":id"
		}
	}

	return strings.Join(segments, "/")
}
