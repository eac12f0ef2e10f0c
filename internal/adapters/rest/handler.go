// Package rest exposes the recommendation services over HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/core/services"
)

// Config tunes the HTTP layer.
type Config struct {
	// RateLimitRequests per RateLimitWindow per client IP; 0 disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	catalog   *services.CatalogRecommender
	live      *services.LiveRecommender
	playlists *services.PlaylistCurator
	library   *services.Library
	sessions  ports.SessionProvider
	cfg       Config
	router    chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(
	catalog *services.CatalogRecommender,
	live *services.LiveRecommender,
	playlists *services.PlaylistCurator,
	library *services.Library,
	sessions ports.SessionProvider,
	cfg Config,
) *Handler {
	h := &Handler{
		catalog:   catalog,
		live:      live,
		playlists: playlists,
		library:   library,
		sessions:  sessions,
		cfg:       cfg,
		router:    chi.NewRouter(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	r := h.router
	r.Use(requestID)
	r.Use(recoverer)
	r.Use(requestLogger)
	r.Use(recordMetrics)

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(h.cfg))

		r.Post("/recommendations/catalog", h.RecommendCatalog)
		r.Get("/recommendations/live", h.RecommendLive)
		r.Post("/recommendations/custom", h.RecommendCustom)

		r.Get("/catalog/search", h.SearchCatalog)
		r.Get("/artists/search", h.SearchArtists)

		r.Get("/playlists", h.ListPlaylists)
		r.Get("/playlists/{id}", h.PlaylistDetails)
		r.Post("/playlists/{id}/suggestions", h.PlaylistSuggestions)
		r.Post("/playlists/{id}/cluster", h.ClusterPlaylist)

		r.Put("/library/tracks", h.SaveTracks)
		r.Delete("/library/tracks", h.RemoveTracks)
	})
}

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CatalogRows int    `json:"catalog_rows"`
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Message:     "uta is live",
		CatalogRows: h.catalog.CatalogSize(),
	})
}
