package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/metrics"
)

// Metrics records per-route request latency and error counts.
func Metrics(m *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			m.HTTPRequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			if recorder.status >= http.StatusInternalServerError {
				m.HTTPErrorsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			}
		})
	}
}
