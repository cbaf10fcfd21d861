package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pable/go-tennis-grader/internal/metrics"
	"github.com/pable/go-tennis-grader/pkg/logger"
)

// requestLogger logs each request and records it against its route pattern,
// so /api/v1/matches/{id} is one series regardless of the ID.
func requestLogger(log logger.Logger, m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			m.RecordHTTPRequest(route, r.Method, status, elapsed)
			log.Info(r.Context(), "request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.String("route", route),
				logger.Int("status", status),
				logger.Duration("elapsed", elapsed),
				logger.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
