// Package web exposes the HTTP surface: the read-only search API the
// frontend queries, and the scrape trigger that streams run progress over
// server-sent events.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"oc-showtimes/internal/model"
	"oc-showtimes/internal/pipeline"
	"oc-showtimes/internal/progress"
	"oc-showtimes/internal/store"
)

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	store    store.Store
	runner   *pipeline.Runner
	theaters []model.Theater
	log      *zap.Logger
}

// New creates a Handler serving the given store and runner.
func New(st store.Store, runner *pipeline.Runner, theaters []model.Theater, log *zap.Logger) *Handler {
	return &Handler{
		store:    st,
		runner:   runner,
		theaters: theaters,
		log:      log,
	}
}

// Router builds the chi router with base middleware and all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.cors)

	r.Get("/api/movies", h.handleSearch)
	r.Get("/api/scrape", h.handleScrape)
	r.Get("/health", h.handleHealth)

	return r
}

// The frontend dev server runs on another origin.
func (h *Handler) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	showings, err := h.store.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error("search failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": showings})
}

func (h *Handler) handleScrape(w http.ResponseWriter, r *http.Request) {
	if h.runner.Running() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "scrape already in progress"})
		return
	}

	sse, ok := progress.NewSSE(w)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	if err := sse.Emit(progress.Connected()); err != nil {
		return
	}

	if _, err := h.runner.Run(r.Context(), h.theaters, sse); err != nil {
		// The runner has already emitted the terminal error event
		// unless a concurrent trigger won the race.
		if errors.Is(err, pipeline.ErrRunInFlight) {
			_ = sse.Emit(progress.Failed("scrape already in progress"))
			return
		}
		h.log.Error("scrape run failed", zap.Error(err))
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
