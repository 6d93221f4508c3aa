package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives per-request measurements.
type RequestRecorder interface {
	RequestStarted()
	RequestFinished(method, route string, status int, elapsed time.Duration)
}

// Metrics records request counts and latencies labelled by chi route pattern,
// so path parameters never explode label cardinality.
func Metrics(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec.RequestStarted()
			rw := wrapResponseWriter(w)
			defer func() {
				rec.RequestFinished(r.Method, routePattern(r), rw.status, time.Since(start))
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
