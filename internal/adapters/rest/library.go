package rest

import (
	"context"
	"net/http"

	"github.com/antaww/uta/internal/core/ports"
)

// SaveTracks handles PUT /api/v1/library/tracks
func (h *Handler) SaveTracks(w http.ResponseWriter, r *http.Request) {
	h.writeLibrary(w, r, h.library.Save)
}

// RemoveTracks handles DELETE /api/v1/library/tracks
func (h *Handler) RemoveTracks(w http.ResponseWriter, r *http.Request) {
	h.writeLibrary(w, r, h.library.Remove)
}

func (h *Handler) writeLibrary(w http.ResponseWriter, r *http.Request, apply func(context.Context, ports.MusicSession, []string) error) {
	if !isJSONContentType(r) {
		writeErrorWithCode(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", codeUnsupportedType)
		return
	}

	var req libraryTracksRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := apply(r.Context(), session, req.TrackIDs); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
