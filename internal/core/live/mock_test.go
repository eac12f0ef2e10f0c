package live

import (
	"context"

	"github.com/antaww/uta/internal/core/domain"
)

// mockSession is a hand-written fake of ports.MusicSession.
type mockSession struct {
	plays      []domain.Play
	playsErr   error
	artists    []domain.Artist
	artistsErr error
	topTracks  map[string][]domain.Track
	topErr     error
	topErrs    map[string]error
	recs       func(q domain.RecommendationQuery) ([]domain.Track, error)

	calls   int
	queries []domain.RecommendationQuery
}

func (m *mockSession) RecentlyPlayed(ctx context.Context, limit int) ([]domain.Play, error) {
	m.calls++
	if m.playsErr != nil {
		return nil, m.playsErr
	}
	if len(m.plays) > limit {
		return m.plays[:limit], nil
	}
	return m.plays, nil
}

func (m *mockSession) Artists(ctx context.Context, ids []string) ([]domain.Artist, error) {
	m.calls++
	return m.artists, m.artistsErr
}

func (m *mockSession) ArtistTopTracks(ctx context.Context, artistID string, market string) ([]domain.Track, error) {
	m.calls++
	if m.topErr != nil {
		return nil, m.topErr
	}
	if err := m.topErrs[artistID]; err != nil {
		return nil, err
	}
	return m.topTracks[artistID], nil
}

func (m *mockSession) Recommendations(ctx context.Context, q domain.RecommendationQuery) ([]domain.Track, error) {
	m.calls++
	m.queries = append(m.queries, q)
	if m.recs == nil {
		return nil, nil
	}
	return m.recs(q)
}

func (m *mockSession) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	m.calls++
	return nil, nil
}

func (m *mockSession) AudioFeatures(ctx context.Context, trackIDs []string) (map[string]domain.AudioFeatures, error) {
	m.calls++
	return nil, nil
}

func (m *mockSession) CreatePlaylist(ctx context.Context, name string, description string, public bool) (string, error) {
	m.calls++
	return "", nil
}

func (m *mockSession) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	m.calls++
	return nil
}

func (m *mockSession) Playlists(ctx context.Context, limit int) ([]domain.PlaylistSummary, error) {
	m.calls++
	return nil, nil
}

func (m *mockSession) Playlist(ctx context.Context, playlistID string) (domain.PlaylistSummary, error) {
	m.calls++
	return domain.PlaylistSummary{}, nil
}

func (m *mockSession) SaveTracks(ctx context.Context, trackIDs []string) error {
	m.calls++
	return nil
}

func (m *mockSession) RemoveSavedTracks(ctx context.Context, trackIDs []string) error {
	m.calls++
	return nil
}

func tr(id string) domain.Track {
	return domain.Track{ID: id, Name: "track " + id}
}

func play(id, artistID, artist string) domain.Play {
	t := tr(id)
	t.Artists = []string{artist}
	t.ArtistIDs = []string{artistID}
	return domain.Play{Track: t}
}

func ids(cands []domain.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Track.ID
	}
	return out
}
