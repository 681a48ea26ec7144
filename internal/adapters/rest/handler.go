// Package rest is the HTTP adapter: routing, request decoding, per-client
// rate limits and the JSON wire format of the public API.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/storybeats-labs/storybeats/internal/core/services"
)

// Handler manages the HTTP interface for the recommendation engine.
type Handler struct {
	engine *services.Engine
	logger zerolog.Logger
	router chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(engine *services.Engine, logger zerolog.Logger) *Handler {
	h := &Handler{
		engine: engine,
		logger: logger.With().Str("component", "rest").Logger(),
		router: chi.NewRouter(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.Use(chimw.Recoverer)
	h.router.Use(h.requestLogger)

	// Health Check + Observability
	h.router.Get("/health", h.HealthCheck)
	h.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Recommendation API. Uploads are throttled harder than pagination.
	h.router.Route("/api", func(r chi.Router) {
		r.With(perClientLimit(5, time.Minute)).Post("/analyze", h.Analyze)
		r.With(perClientLimit(10, time.Minute)).Post("/more-songs", h.MoreSongs)
		r.Post("/feedback", h.SubmitFeedback)
		r.Get("/feedback/stats", h.FeedbackStats)
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "StoryBeats API"})
}
