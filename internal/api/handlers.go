// Package api serves graded matches as plain JSON for a rendering client.
// Every request re-reads the match and rebuilds its timeline; nothing is
// cached between requests.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pable/go-tennis-grader/internal/aggregator"
	"github.com/pable/go-tennis-grader/internal/metrics"
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/timeline"
	"github.com/pable/go-tennis-grader/pkg/logger"
)

// Store is the read side of the match store.
type Store interface {
	Ping(ctx context.Context) error
	ListMatches() ([]model.MatchSummary, error)
	GetMatch(id string) (*model.MatchData, error)
	GetMatchByPrefix(prefix string) (*model.MatchSummary, error)
}

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	store   Store
	metrics *metrics.Manager
	log     logger.Logger
}

// NewHandler creates a handler. m may be nil.
func NewHandler(store Store, m *metrics.Manager, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{store: store, metrics: m, log: log}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.respondError(w, r, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "tennis-grader",
	})
}

// ListMatches returns every stored match, most recently edited first.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.store.ListMatches()
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to list matches", err)
		return
	}
	out := make([]summaryResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, newSummaryResponse(m))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"matches": out,
		"count":   len(out),
	})
}

// GetMatch returns the match with its rallies and current score.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}
	contexts := h.fold(m.Rallies)
	respondJSON(w, http.StatusOK, newMatchResponse(m, contexts[len(contexts)-1].ScoreBefore))
}

// GetContexts returns one entry per rally plus the trailing next-point entry.
func (h *Handler) GetContexts(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}
	contexts := h.fold(m.Rallies)
	out := make([]contextResponse, 0, len(contexts))
	for _, c := range contexts {
		out = append(out, newContextResponse(c))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"matchId":  m.ID,
		"contexts": out,
		"count":    len(out),
	})
}

// GetStats returns the match counters after the first N rallies.
// Query params: at (defaults to every rally, clamped to the rally count).
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}
	at := parseIntParam(r, "at", len(m.Rallies))
	if at < 0 {
		at = 0
	}
	if at > len(m.Rallies) {
		at = len(m.Rallies)
	}
	c := h.fold(m.Rallies)[at]
	respondJSON(w, http.StatusOK, newStatsResponse(m.ID, at, c))
}

// GetNextServe returns who serves the next, unrecorded rally.
func (h *Handler) GetNextServe(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMatch(w, r)
	if !ok {
		return
	}
	next := timeline.NextContext(m.Rallies)
	server := next.Server()
	respondJSON(w, http.StatusOK, nextServeResponse{
		MatchID:       m.ID,
		IsMyServe:     next.IsMyServe(),
		Server:        server.String(),
		ServerName:    m.Name(server),
		IsSecondServe: next.IsSecondServe(),
		ScoreBefore:   next.ScoreBefore,
	})
}

// loadMatch resolves the {id} URL parameter, accepting a unique ID prefix.
// It writes the error response itself and reports false on failure.
func (h *Handler) loadMatch(w http.ResponseWriter, r *http.Request) (*model.MatchData, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, r, http.StatusBadRequest, "match id is required", nil)
		return nil, false
	}
	m, err := h.store.GetMatch(id)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to load match", err)
		return nil, false
	}
	if m == nil {
		s, err := h.store.GetMatchByPrefix(id)
		if err != nil {
			h.respondError(w, r, http.StatusInternalServerError, "failed to load match", err)
			return nil, false
		}
		if s != nil {
			m, err = h.store.GetMatch(s.ID)
			if err != nil {
				h.respondError(w, r, http.StatusInternalServerError, "failed to load match", err)
				return nil, false
			}
		}
	}
	if m == nil {
		h.respondError(w, r, http.StatusNotFound, "match not found", nil)
		return nil, false
	}
	return m, true
}

func (h *Handler) fold(rallies []model.Rally) []timeline.RallyContext {
	start := time.Now()
	contexts := aggregator.Build(rallies)
	h.metrics.ObserveFold(len(rallies), time.Since(start))
	return contexts
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		h.log.Error(r.Context(), message, logger.String("path", r.URL.Path), logger.Error(err))
	}
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
