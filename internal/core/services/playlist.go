package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/live"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/core/similarity"
	"github.com/antaww/uta/internal/logging"
	"github.com/antaww/uta/internal/metrics"
)

// PlaylistOptions tunes the playlist features.
type PlaylistOptions struct {
	SuggestionSeeds    int
	DefaultSuggestions int
	ClusterSize        int
	DefaultClusterName string
	Market             string
}

func DefaultPlaylistOptions() PlaylistOptions {
	return PlaylistOptions{
		SuggestionSeeds:    5,
		DefaultSuggestions: 10,
		ClusterSize:        10,
		DefaultClusterName: "Clustered Playlist",
		Market:             "US",
	}
}

// PlaylistDetails is a playlist with its tracks.
type PlaylistDetails struct {
	domain.PlaylistSummary
	Tracks []domain.Track
}

// ClusterResult describes a playlist written by Cluster.
type ClusterResult struct {
	PlaylistID string
	Name       string
	Tracks     []domain.Track
	Profile    domain.AudioFeatures
}

// PlaylistCurator works on a listener's existing playlists.
type PlaylistCurator struct {
	opts    PlaylistOptions
	newRand func() live.Rand
}

// NewPlaylistCurator constructs a PlaylistCurator. newRand may be nil.
func NewPlaylistCurator(opts PlaylistOptions, newRand func() live.Rand) *PlaylistCurator {
	if newRand == nil {
		newRand = live.NewRand
	}
	return &PlaylistCurator{opts: opts, newRand: newRand}
}

// List returns the listener's playlists. limit <= 0 lists all of them.
func (s *PlaylistCurator) List(ctx context.Context, session ports.MusicSession, limit int) ([]domain.PlaylistSummary, error) {
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	playlists, err := session.Playlists(ctx, limit)
	if err != nil {
		return nil, wrap("list playlists", err)
	}
	if playlists == nil {
		playlists = []domain.PlaylistSummary{}
	}
	return playlists, nil
}

// Details returns the metadata and tracks of one playlist.
func (s *PlaylistCurator) Details(ctx context.Context, session ports.MusicSession, playlistID string) (PlaylistDetails, error) {
	if session == nil {
		return PlaylistDetails{}, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(playlistID) == "" {
		return PlaylistDetails{}, &domain.ValidationError{Field: "playlist_id", Reason: "is required"}
	}

	summary, err := session.Playlist(ctx, playlistID)
	if err != nil {
		return PlaylistDetails{}, wrap("playlist", err)
	}
	tracks, err := session.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return PlaylistDetails{}, wrap("playlist tracks", err)
	}
	if tracks == nil {
		tracks = []domain.Track{}
	}
	return PlaylistDetails{PlaylistSummary: summary, Tracks: tracks}, nil
}

// Suggestions recommends tracks that fit a playlist. The playlist tracks
// nearest to its audio centroid seed one recommendation call; tracks already
// in the playlist are dropped.
func (s *PlaylistCurator) Suggestions(ctx context.Context, session ports.MusicSession, playlistID string, limit int) ([]domain.Track, error) {
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = s.opts.DefaultSuggestions
	}

	pl, ranker, vectors, err := s.load(ctx, session, playlistID)
	if err != nil {
		return nil, err
	}

	nearest := ranker.Rank(vectors, nil, s.opts.SuggestionSeeds)
	seeds := make([]string, len(nearest))
	for i, r := range nearest {
		seeds[i] = r.Track.ID
	}

	recs, err := session.Recommendations(ctx, domain.RecommendationQuery{
		SeedTracks: seeds,
		Market:     s.opts.Market,
		Limit:      min(100, limit+len(pl.Tracks)),
	})
	if err != nil {
		return nil, wrap("playlist suggestions", err)
	}

	fresh := make([]domain.Track, 0, len(recs))
	for _, t := range recs {
		if !pl.Contains(t.ID) {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return nil, &domain.EmptyResultError{Reason: "every suggestion is already in the playlist"}
	}

	out := live.ShuffleAndTruncate(s.newRand(), fresh, limit)
	metrics.RecordServed("playlist", len(out))
	return out, nil
}

// Cluster writes the playlist tracks closest to the playlist's audio centroid
// to a new private playlist.
func (s *PlaylistCurator) Cluster(ctx context.Context, session ports.MusicSession, playlistID string, name string) (ClusterResult, error) {
	if session == nil {
		return ClusterResult{}, domain.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.opts.DefaultClusterName
	}

	pl, ranker, vectors, err := s.load(ctx, session, playlistID)
	if err != nil {
		return ClusterResult{}, err
	}

	nearest := ranker.Rank(vectors, nil, s.opts.ClusterSize)
	cluster, err := domain.NewPlaylist(playlistID, name)
	if err != nil {
		return ClusterResult{}, wrap("cluster", err)
	}
	ids := make([]string, 0, len(nearest))
	for _, r := range nearest {
		if err := cluster.AddTrack(r.Track); err != nil {
			continue
		}
		ids = append(ids, r.Track.ID)
	}

	newID, err := session.CreatePlaylist(ctx, name, fmt.Sprintf("Closest tracks to the sound of %q", pl.Name), false)
	if err != nil {
		return ClusterResult{}, wrap("create playlist", err)
	}
	if err := session.AddTracksToPlaylist(ctx, newID, ids); err != nil {
		return ClusterResult{}, wrap("fill playlist", err)
	}

	logging.Ctx(ctx).Info().
		Str("source_playlist", playlistID).
		Str("playlist_id", newID).
		Int("tracks", len(ids)).
		Msg("clustered playlist created")

	cluster.ID = newID
	return ClusterResult{
		PlaylistID: newID,
		Name:       name,
		Tracks:     cluster.Tracks,
		Profile:    cluster.Analyze(),
	}, nil
}

// load fetches the playlist with its audio features and prepares a ranker
// over the tracks that have features.
func (s *PlaylistCurator) load(ctx context.Context, session ports.MusicSession, playlistID string) (*domain.Playlist, *similarity.Ranker, []domain.FeatureVector, error) {
	if strings.TrimSpace(playlistID) == "" {
		return nil, nil, nil, &domain.ValidationError{Field: "playlist_id", Reason: "is required"}
	}

	tracks, err := session.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, nil, nil, wrap("playlist tracks", err)
	}

	pl := &domain.Playlist{ID: playlistID, Name: playlistID}
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if err := pl.AddTrack(t); err != nil && !errors.Is(err, domain.ErrDuplicateTrack) {
			return nil, nil, nil, wrap("playlist tracks", err)
		}
	}
	if len(pl.Tracks) == 0 {
		return nil, nil, nil, &domain.ValidationError{Field: "playlist_id", Reason: "playlist has no tracks"}
	}

	ids := make([]string, 0, len(pl.Tracks))
	for _, t := range pl.Tracks {
		ids = append(ids, t.ID)
	}
	features, err := session.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, nil, nil, wrap("audio features", err)
	}

	rows := make([]domain.Track, 0, len(pl.Tracks))
	vectors := make([]domain.FeatureVector, 0, len(pl.Tracks))
	for i := range pl.Tracks {
		f, ok := features[pl.Tracks[i].ID]
		if !ok {
			continue
		}
		pl.Tracks[i].Features = f
		vec, err := domain.AudioSchema.Vector(pl.Tracks[i])
		if err != nil || !vec.Finite() {
			continue
		}
		rows = append(rows, pl.Tracks[i])
		vectors = append(vectors, vec)
	}
	if len(rows) == 0 {
		return nil, nil, nil, &domain.EmptyResultError{Reason: "no audio features available for the playlist"}
	}

	// Single-cluster k-means: Euclidean distance to the mean in raw feature units.
	ranker := similarity.NewRowRanker(rows, vectors, domain.AudioSchema.Dim(),
		similarity.WithMetric(similarity.EuclideanDistance),
		similarity.WithRawFeatures(),
	)
	return pl, ranker, vectors, nil
}
