package providers

import (
	"net/http"
	"time"
)

// statusWriter captures the status code written by the wrapped handler.
// A handler that never calls WriteHeader implicitly answers 200.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware instruments the admin mux. The daemon serves exactly
// two admin routes; any other path is folded into a single label so
// stray scanners cannot grow the endpoint cardinality.
func MetricsMiddleware(metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		endpoint := adminEndpoint(r.URL.Path)
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, time.Since(start))
	})
}

func adminEndpoint(path string) string {
	switch path {
	case "/health", "/metrics":
		return path
	}
	return "other"
}
