package delivery

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Observe records prometheus metrics and a structured access log line.
// The route label is the chi pattern, so ids do not explode cardinality.
func Observe(log *logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

			log.Log(logger.LogEntry{
				Level:   "debug",
				Message: "http request",
				Fields: map[string]any{
					"method":      r.Method,
					"route":       route,
					"status":      status,
					"duration_ms": elapsed.Milliseconds(),
					"request_id":  middleware.GetReqID(r.Context()),
				},
			})
		})
	}
}
