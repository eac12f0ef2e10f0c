package live

import (
	"context"
	"errors"
	"fmt"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
)

// Options sizes the three aggregation sources.
type Options struct {
	TopArtists      int
	TracksPerArtist int
	TopGenres       int
	TracksPerGenre  int
	RecentSeeds     int
	TracksPerSeed   int
	Market          string
	// DedupeAcrossSources keeps only the first candidate per track id.
	// Off by default: a track proposed by two sources appears twice.
	DedupeAcrossSources bool
}

func DefaultOptions() Options {
	return Options{
		TopArtists:      5,
		TracksPerArtist: 3,
		TopGenres:       3,
		TracksPerGenre:  5,
		RecentSeeds:     5,
		TracksPerSeed:   5,
		Market:          "US",
	}
}

// Aggregator gathers candidates for one listener from the artist, genre and
// similar-track sources. Sources run one after another; a failing source is
// isolated and the others still contribute.
type Aggregator struct {
	opts Options
}

func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{opts: opts}
}

// Collect runs every source and returns the combined candidates, minus any
// track in the recent-play set, along with the per-source results.
func (a *Aggregator) Collect(ctx context.Context, session ports.MusicSession, profile Profile, band domain.PopularityBand) ([]domain.Candidate, []SourceResult) {
	results := []SourceResult{
		Run(ctx, SourceArtist, func(ctx context.Context) ([]domain.Candidate, error) {
			return a.fromArtists(ctx, session, profile)
		}),
		Run(ctx, SourceGenre, func(ctx context.Context) ([]domain.Candidate, error) {
			return a.fromGenres(ctx, session, profile, band)
		}),
		Run(ctx, SourceSimilar, func(ctx context.Context) ([]domain.Candidate, error) {
			return a.fromRecent(ctx, session, profile, band)
		}),
	}

	return a.filter(Combine(results), profile.RecentIDs), results
}

func (a *Aggregator) filter(candidates []domain.Candidate, played map[string]struct{}) []domain.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := played[c.Track.ID]; ok {
			continue
		}
		if a.opts.DedupeAcrossSources && c.Track.ID != "" {
			if _, dup := seen[c.Track.ID]; dup {
				continue
			}
			seen[c.Track.ID] = struct{}{}
		}
		out = append(out, c)
	}
	return out
}

// fromArtists skips artists whose top tracks cannot be loaded. The source
// fails only when it produced nothing; a rate limit stops further calls.
func (a *Aggregator) fromArtists(ctx context.Context, session ports.MusicSession, profile Profile) ([]domain.Candidate, error) {
	var out []domain.Candidate
	var firstErr error
	for _, artist := range profile.TopArtists {
		if artist.ID == "" {
			continue
		}
		tracks, err := session.ArtistTopTracks(ctx, artist.ID, a.opts.Market)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("top tracks of %s: %w", artist.Name, err)
			}
			logging.Ctx(ctx).Warn().Err(err).Str("source", SourceArtist).Str("artist", artist.Name).Msg("artist skipped")
			if errors.Is(err, domain.ErrRateLimited) {
				break
			}
			continue
		}

		kept := 0
		for _, t := range tracks {
			if kept >= a.opts.TracksPerArtist {
				break
			}
			if profile.WasPlayed(t.ID) {
				continue
			}
			out = append(out, domain.Candidate{Track: t, Source: "top artist: " + artist.Name})
			kept++
		}
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (a *Aggregator) fromGenres(ctx context.Context, session ports.MusicSession, profile Profile, band domain.PopularityBand) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for _, genre := range profile.TopGenres {
		tracks, err := session.Recommendations(ctx, domain.RecommendationQuery{
			SeedGenres: []string{genre.Name},
			Band:       band,
			Market:     a.opts.Market,
			Limit:      a.opts.TracksPerGenre,
		})
		if err != nil {
			return nil, fmt.Errorf("recommendations for genre %s: %w", genre.Name, err)
		}
		for _, t := range tracks {
			out = append(out, domain.Candidate{Track: t, Source: "genre: " + genre.Name})
		}
	}
	return out, nil
}

func (a *Aggregator) fromRecent(ctx context.Context, session ports.MusicSession, profile Profile, band domain.PopularityBand) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for _, seed := range profile.RecentTracks(a.opts.RecentSeeds) {
		if seed.ID == "" {
			continue
		}
		tracks, err := session.Recommendations(ctx, domain.RecommendationQuery{
			SeedTracks:    []string{seed.ID},
			MinPopularity: band.Min,
			Market:        a.opts.Market,
			Limit:         a.opts.TracksPerSeed,
		})
		if err != nil {
			return nil, fmt.Errorf("recommendations similar to %s: %w", seed.Name, err)
		}
		for _, t := range tracks {
			out = append(out, domain.Candidate{Track: t, Source: "similar to: " + seed.Name})
		}
	}
	return out, nil
}
