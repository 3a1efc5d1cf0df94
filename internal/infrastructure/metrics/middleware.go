package metrics

import (
	"net/http"
	"time"
)

// statusRecorder captures the response status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware returns an HTTP middleware that records metrics for each request.
// The route label is method plus path, e.g. "POST /scripts".
func Middleware(collector *Collector, exporter *PrometheusExporter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		route := req.Method + " " + req.URL.Path

		collector.RecordRequest(route)
		if exporter != nil {
			exporter.RecordRequest(route)
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		duration := time.Since(start).Seconds()
		collector.RecordDuration(route, duration)
		if exporter != nil {
			exporter.RecordDuration(route, duration)
		}

		if rec.status >= http.StatusInternalServerError {
			collector.RecordError(route)
			if exporter != nil {
				exporter.RecordError(route)
			}
		}
	})
}
