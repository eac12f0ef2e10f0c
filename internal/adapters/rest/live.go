package rest

import (
	"net/http"

	"github.com/antaww/uta/internal/core/live"
	"github.com/antaww/uta/internal/core/services"
)

const (
	defaultTargetPopularity = 50
	defaultLiveLimit        = 10
	defaultArtistSearch     = 10
)

// RecommendLive handles GET /api/v1/recommendations/live
func (h *Handler) RecommendLive(w http.ResponseWriter, r *http.Request) {
	target, err := queryInt(r, "target_popularity", defaultTargetPopularity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultLiveLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.live.Recommend(r.Context(), session, target, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp liveRecommendationResponse
	resp.Tracks = toCandidateResponses(result.Tracks)
	resp.BasedOn.RecentTracks = toTrackResponses(result.Summary.RecentTracks)
	resp.BasedOn.TopArtists = toNameCounts(result.Summary.TopArtists)
	resp.BasedOn.TopGenres = toNameCounts(result.Summary.TopGenres)

	writeJSON(w, http.StatusOK, resp)
}

// RecommendCustom handles POST /api/v1/recommendations/custom
func (h *Handler) RecommendCustom(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeErrorWithCode(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", codeUnsupportedType)
		return
	}

	req := customRecommendationRequest{TargetPopularity: defaultTargetPopularity}
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	seeds := live.Seeds{Artists: req.Artists, Tracks: req.Tracks, Genres: req.Genres}
	if err := seeds.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.live.RecommendSeeded(r.Context(), session, services.SeededRequest{
		Seeds:            seeds,
		TargetPopularity: req.TargetPopularity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp customRecommendationResponse
	resp.Tracks = toCandidateResponses(result.Tracks)
	resp.BasedOn.SelectedArtists = nonNil(result.Seeds.Artists)
	resp.BasedOn.SelectedTracks = nonNil(result.Seeds.Tracks)
	resp.BasedOn.SelectedGenres = nonNil(result.Seeds.Genres)

	writeJSON(w, http.StatusOK, resp)
}

// SearchArtists handles GET /api/v1/artists/search
func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultArtistSearch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	artists, err := h.live.SearchArtists(r.Context(), r.URL.Query().Get("query"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := artistsResponse{Artists: make([]artistResponse, len(artists))}
	for i, a := range artists {
		resp.Artists[i] = toArtistResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}
