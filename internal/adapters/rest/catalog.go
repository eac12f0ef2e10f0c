package rest

import (
	"net/http"

	"github.com/antaww/uta/internal/core/catalog"
	"github.com/antaww/uta/internal/core/domain"
)

// RecommendCatalog handles POST /api/v1/recommendations/catalog
func (h *Handler) RecommendCatalog(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeErrorWithCode(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", codeUnsupportedType)
		return
	}

	var req catalogRecommendationRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	seeds := make([]domain.CatalogSeed, len(req.Songs))
	for i, s := range req.Songs {
		seeds[i] = domain.CatalogSeed{Name: s.Name, Year: s.Year}
	}

	result, err := h.catalog.Recommend(r.Context(), seeds, req.Count)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp catalogRecommendationResponse
	resp.Recommendations = make([]catalogTrackResponse, len(result.Tracks))
	for i, ranked := range result.Tracks {
		resp.Recommendations[i] = toRankedResponse(ranked)
	}
	resp.BasedOn.InputSongs = make([]catalogTrackResponse, len(result.InputSongs))
	for i, t := range result.InputSongs {
		resp.BasedOn.InputSongs[i] = toCatalogTrackResponse(t)
	}
	for _, s := range result.Unresolved {
		resp.Unresolved = append(resp.Unresolved, songRequest{Name: s.Name, Year: s.Year})
	}

	writeJSON(w, http.StatusOK, resp)
}

// SearchCatalog handles GET /api/v1/catalog/search
func (h *Handler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", catalog.DefaultSearchLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tracks, err := h.catalog.Search(r.URL.Query().Get("query"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tracksResponse{Tracks: toTrackResponses(tracks)})
}
