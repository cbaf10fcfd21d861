package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pable/go-tennis-grader/internal/metrics"
	"github.com/pable/go-tennis-grader/pkg/logger"
)

// NewRouter wires the handler, CORS and request instrumentation.
func NewRouter(h *Handler, m *metrics.Manager, log logger.Logger, corsOrigins []string) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log, m))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/matches", h.ListMatches)
		r.Route("/matches/{id}", func(r chi.Router) {
			r.Get("/", h.GetMatch)
			r.Get("/contexts", h.GetContexts)
			r.Get("/stats", h.GetStats)
			r.Get("/next-serve", h.GetNextServe)
		})
	})
	return r
}
