package services

import (
	"context"
	"math/rand/v2"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/live"
)

// mockSession is a hand-written fake of ports.MusicSession.
type mockSession struct {
	plays     []domain.Play
	playsErr  error
	artists   []domain.Artist
	topTracks map[string][]domain.Track
	recs      func(q domain.RecommendationQuery) ([]domain.Track, error)

	playlists   []domain.PlaylistSummary
	summary     domain.PlaylistSummary
	playlist    []domain.Track
	playlistErr error
	features    map[string]domain.AudioFeatures
	createErr   error
	libraryErr  error

	calls    int
	queries  []domain.RecommendationQuery
	created  string
	addedTo  string
	addedIDs []string
	saved    []string
	removed  []string
}

func (m *mockSession) RecentlyPlayed(ctx context.Context, limit int) ([]domain.Play, error) {
	m.calls++
	return m.plays, m.playsErr
}

func (m *mockSession) Artists(ctx context.Context, ids []string) ([]domain.Artist, error) {
	m.calls++
	return m.artists, nil
}

func (m *mockSession) ArtistTopTracks(ctx context.Context, artistID string, market string) ([]domain.Track, error) {
	m.calls++
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

func (m *mockSession) Playlists(ctx context.Context, limit int) ([]domain.PlaylistSummary, error) {
	m.calls++
	return m.playlists, m.playlistErr
}

func (m *mockSession) Playlist(ctx context.Context, playlistID string) (domain.PlaylistSummary, error) {
	m.calls++
	return m.summary, m.playlistErr
}

func (m *mockSession) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	m.calls++
	return m.playlist, m.playlistErr
}

func (m *mockSession) AudioFeatures(ctx context.Context, trackIDs []string) (map[string]domain.AudioFeatures, error) {
	m.calls++
	return m.features, nil
}

func (m *mockSession) CreatePlaylist(ctx context.Context, name string, description string, public bool) (string, error) {
	m.calls++
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = name
	return "new-pl", nil
}

func (m *mockSession) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	m.calls++
	m.addedTo = playlistID
	m.addedIDs = trackIDs
	return nil
}

func (m *mockSession) SaveTracks(ctx context.Context, trackIDs []string) error {
	m.calls++
	m.saved = append(m.saved, trackIDs...)
	return m.libraryErr
}

func (m *mockSession) RemoveSavedTracks(ctx context.Context, trackIDs []string) error {
	m.calls++
	m.removed = append(m.removed, trackIDs...)
	return m.libraryErr
}

// mockArtists is a fake ports.ArtistSearcher.
type mockArtists struct {
	artists []domain.Artist
	err     error
	query   string
}

func (m *mockArtists) SearchArtists(ctx context.Context, query string, limit int) ([]domain.Artist, error) {
	m.query = query
	return m.artists, m.err
}

func fixedRand() live.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

func tr(id string) domain.Track {
	return domain.Track{ID: id, Name: "track " + id}
}
