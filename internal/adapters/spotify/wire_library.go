package spotify

import (
	"context"
	"net/http"
)

const maxSavedTracksPerWrite = 50

// SaveTracks adds tracks to the current user's library, 50 per request.
func (s *Session) SaveTracks(ctx context.Context, trackIDs []string) error {
	return s.writeSavedTracks(ctx, http.MethodPut, "save tracks", trackIDs)
}

// RemoveSavedTracks removes tracks from the current user's library.
func (s *Session) RemoveSavedTracks(ctx context.Context, trackIDs []string) error {
	return s.writeSavedTracks(ctx, http.MethodDelete, "remove saved tracks", trackIDs)
}

func (s *Session) writeSavedTracks(ctx context.Context, method string, op string, trackIDs []string) error {
	for start := 0; start < len(trackIDs); start += maxSavedTracksPerWrite {
		end := min(start+maxSavedTracksPerWrite, len(trackIDs))
		body := savedTracksRequest{IDs: trackIDs[start:end]}
		if err := s.client.send(ctx, s.http, method, op, "/me/tracks", body, nil); err != nil {
			return err
		}
	}
	return nil
}
