package services

import (
	"context"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/live"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
	"github.com/antaww/uta/internal/metrics"
)

// LiveOptions tunes the live engine.
type LiveOptions struct {
	HistoryLimit        int
	SummaryRecentTracks int
	SeededCap           int
	Aggregation         live.Options
}

// LiveResult is a live recommendation with what it was based on.
type LiveResult struct {
	Tracks  []domain.Candidate
	Summary domain.Summary
	Sources []live.SourceResult
}

// SeededRequest carries caller-chosen seeds.
type SeededRequest struct {
	Seeds            live.Seeds
	TargetPopularity int
}

// SeededResult is a seeded recommendation.
type SeededResult struct {
	Tracks []domain.Candidate
	Seeds  live.Seeds
}

// LiveRecommender recommends from the listener's streaming-service history.
type LiveRecommender struct {
	aggregator *live.Aggregator
	artists    ports.ArtistSearcher
	opts       LiveOptions
	newRand    func() live.Rand
}

type LiveOption func(*LiveRecommender)

// WithShuffleSource replaces the random source used for diversity.
func WithShuffleSource(f func() live.Rand) LiveOption {
	return func(s *LiveRecommender) {
		s.newRand = f
	}
}

// NewLiveRecommender constructs a LiveRecommender. artists may be nil when no
// application credentials are configured.
func NewLiveRecommender(artists ports.ArtistSearcher, opts LiveOptions, extra ...LiveOption) *LiveRecommender {
	s := &LiveRecommender{
		aggregator: live.NewAggregator(opts.Aggregation),
		artists:    artists,
		opts:       opts,
		newRand:    live.NewRand,
	}
	for _, o := range extra {
		o(s)
	}
	return s
}

// Recommend aggregates candidates from the listener's top artists, top genres
// and recent tracks, then returns a random selection of at most limit.
func (s *LiveRecommender) Recommend(ctx context.Context, session ports.MusicSession, targetPopularity int, limit int) (LiveResult, error) {
	if session == nil {
		return LiveResult{}, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		return LiveResult{}, &domain.ValidationError{Field: "limit", Reason: "must be positive"}
	}

	profile, err := live.BuildProfile(ctx, session, live.ProfileOptions{
		HistoryLimit: s.opts.HistoryLimit,
		TopArtists:   s.opts.Aggregation.TopArtists,
		TopGenres:    s.opts.Aggregation.TopGenres,
	})
	if err != nil {
		return LiveResult{}, wrap("live profile", err)
	}

	band := domain.NewPopularityBand(targetPopularity)
	candidates, results := s.aggregator.Collect(ctx, session, profile, band)
	if len(candidates) == 0 {
		return LiveResult{}, &domain.EmptyResultError{Reason: emptyReason(results)}
	}

	tracks := live.ShuffleAndTruncate(s.newRand(), candidates, limit)
	logging.Ctx(ctx).Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(tracks)).
		Int("band_min", band.Min).
		Int("band_max", band.Max).
		Msg("live recommendation")
	metrics.RecordServed("live", len(tracks))

	return LiveResult{
		Tracks:  tracks,
		Summary: profile.Summary(s.opts.SummaryRecentTracks),
		Sources: results,
	}, nil
}

// RecommendSeeded recommends from caller-chosen artists, tracks and genres.
func (s *LiveRecommender) RecommendSeeded(ctx context.Context, session ports.MusicSession, req SeededRequest) (SeededResult, error) {
	if err := req.Seeds.Validate(); err != nil {
		return SeededResult{}, err
	}
	if session == nil {
		return SeededResult{}, domain.ErrUnauthenticated
	}

	band := domain.NewPopularityBand(req.TargetPopularity)
	candidates, err := s.aggregator.CollectSeeded(ctx, session, req.Seeds, band, s.opts.SeededCap)
	if err != nil {
		return SeededResult{}, wrap("seeded recommendation", err)
	}
	if len(candidates) == 0 {
		return SeededResult{}, &domain.EmptyResultError{Reason: "no tracks matched the selected seeds"}
	}

	tracks := live.ShuffleAndTruncate(s.newRand(), candidates, s.opts.SeededCap)
	metrics.RecordServed("seeded", len(tracks))
	return SeededResult{Tracks: tracks, Seeds: req.Seeds}, nil
}

// SearchArtists looks artists up by name with application credentials.
func (s *LiveRecommender) SearchArtists(ctx context.Context, query string, limit int) ([]domain.Artist, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Field: "query", Reason: "is required"}
	}
	if s.artists == nil {
		return nil, domain.ErrUnauthenticated
	}
	artists, err := s.artists.SearchArtists(ctx, query, limit)
	if err != nil {
		return nil, wrap("search artists", err)
	}
	return artists, nil
}

func emptyReason(results []live.SourceResult) string {
	var failed []string
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r.Source)
		}
	}
	if len(failed) == 0 {
		return "no source produced a candidate"
	}
	return "no source produced a candidate (failed: " + strings.Join(failed, ", ") + ")"
}
