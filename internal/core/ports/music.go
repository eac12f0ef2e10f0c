package ports

import (
	"context"

	"github.com/antaww/uta/internal/core/domain"
)

// MusicSession is an authenticated handle to the streaming service for one listener.
// Implementations return domain errors: ErrUnauthenticated, *RateLimitedError, *UpstreamError.
type MusicSession interface {
	RecentlyPlayed(ctx context.Context, limit int) ([]domain.Play, error)
	Artists(ctx context.Context, ids []string) ([]domain.Artist, error)
	ArtistTopTracks(ctx context.Context, artistID string, market string) ([]domain.Track, error)
	Recommendations(ctx context.Context, q domain.RecommendationQuery) ([]domain.Track, error)
	Playlists(ctx context.Context, limit int) ([]domain.PlaylistSummary, error)
	Playlist(ctx context.Context, playlistID string) (domain.PlaylistSummary, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error)
	AudioFeatures(ctx context.Context, trackIDs []string) (map[string]domain.AudioFeatures, error)
	CreatePlaylist(ctx context.Context, name string, description string, public bool) (string, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
	SaveTracks(ctx context.Context, trackIDs []string) error
	RemoveSavedTracks(ctx context.Context, trackIDs []string) error
}

// SessionProvider opens a session from an already-issued user access token.
type SessionProvider interface {
	Session(ctx context.Context, accessToken string) (MusicSession, error)
}

// ArtistSearcher searches artists with application-level credentials.
type ArtistSearcher interface {
	SearchArtists(ctx context.Context, query string, limit int) ([]domain.Artist, error)
}
