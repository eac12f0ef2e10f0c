package services

import (
	"context"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
)

const maxLibraryWrite = 50

// Library saves and removes tracks in the listener's library.
type Library struct{}

func NewLibrary() *Library {
	return &Library{}
}

// Save likes tracks.
func (l *Library) Save(ctx context.Context, session ports.MusicSession, trackIDs []string) error {
	ids, err := l.check(session, trackIDs)
	if err != nil {
		return err
	}
	if err := session.SaveTracks(ctx, ids); err != nil {
		return wrap("save tracks", err)
	}
	logging.Ctx(ctx).Debug().Int("tracks", len(ids)).Msg("tracks saved to library")
	return nil
}

// Remove unlikes tracks.
func (l *Library) Remove(ctx context.Context, session ports.MusicSession, trackIDs []string) error {
	ids, err := l.check(session, trackIDs)
	if err != nil {
		return err
	}
	if err := session.RemoveSavedTracks(ctx, ids); err != nil {
		return wrap("remove saved tracks", err)
	}
	logging.Ctx(ctx).Debug().Int("tracks", len(ids)).Msg("tracks removed from library")
	return nil
}

func (l *Library) check(session ports.MusicSession, trackIDs []string) ([]string, error) {
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	ids := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, &domain.ValidationError{Field: "track_ids", Reason: "must not contain empty ids"}
		}
		ids = append(ids, id)
	}
	switch {
	case len(ids) == 0:
		return nil, &domain.ValidationError{Field: "track_ids", Reason: "is required"}
	case len(ids) > maxLibraryWrite:
		return nil, &domain.ValidationError{Field: "track_ids", Reason: "at most 50 tracks per request"}
	}
	return ids, nil
}
