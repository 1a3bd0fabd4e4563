package middleware

import (
	"net/http"
	"time"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/metrics"
)

// unmatchedRoute labels requests that matched no registered pattern.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count, duration and in-flight requests
// labelled by the ServeMux pattern that handled the request. It must wrap
// the mux directly and pass the request through unchanged.
func MetricsMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			collector.HTTPInFlight(1)
			defer collector.HTTPInFlight(-1)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			collector.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
