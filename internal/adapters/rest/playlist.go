package rest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/antaww/uta/internal/core/domain"
)

// ListPlaylists handles GET /api/v1/playlists
func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if limit < 0 {
		writeError(w, r, &domain.ValidationError{Field: "limit", Reason: "must not be negative"})
		return
	}

	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	playlists, err := h.playlists.List(r.Context(), session, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := playlistsResponse{Playlists: make([]playlistResponse, len(playlists))}
	for i, p := range playlists {
		resp.Playlists[i] = toPlaylistResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// PlaylistDetails handles GET /api/v1/playlists/{id}
func (h *Handler) PlaylistDetails(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	details, err := h.playlists.Details(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, playlistDetailsResponse{
		playlistResponse: toPlaylistResponse(details.PlaylistSummary),
		Tracks:           toTrackResponses(details.Tracks),
	})
}

// PlaylistSuggestions handles POST /api/v1/playlists/{id}/suggestions
func (h *Handler) PlaylistSuggestions(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, r, &domain.ValidationError{Field: "id", Reason: "playlist id is required"})
		return
	}

	var req playlistSuggestionsRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tracks, err := h.playlists.Suggestions(r.Context(), session, playlistID, req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: toTrackResponses(tracks)})
}

// ClusterPlaylist handles POST /api/v1/playlists/{id}/cluster
func (h *Handler) ClusterPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, r, &domain.ValidationError{Field: "id", Reason: "playlist id is required"})
		return
	}

	var req clusterPlaylistRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.playlists.Cluster(r.Context(), session, playlistID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/playlists/"+result.PlaylistID)
	writeJSON(w, http.StatusCreated, clusterResponse{
		Message:    fmt.Sprintf("created playlist %q with %d tracks", result.Name, len(result.Tracks)),
		PlaylistID: result.PlaylistID,
		Name:       result.Name,
		Tracks:     toTrackResponses(result.Tracks),
		Profile:    toFeaturesResponse(result.Profile),
	})
}
