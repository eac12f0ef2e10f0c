package live

import (
	"context"
	"errors"
	"fmt"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
)

// Seed limits of a caller-seeded request.
const (
	MaxSeedArtists = 5
	MaxSeedTracks  = 5
	MaxSeedGenres  = 3
)

// Seeds are explicit caller-chosen seeds for the live engine.
type Seeds struct {
	Artists []string
	Tracks  []string
	Genres  []string
}

// Validate requires at least one seed and enforces the per-category limits.
func (s Seeds) Validate() error {
	switch {
	case len(s.Artists) == 0 && len(s.Tracks) == 0 && len(s.Genres) == 0:
		return &domain.ValidationError{Field: "seeds", Reason: "at least one artist, track or genre is required"}
	case len(s.Artists) > MaxSeedArtists:
		return &domain.ValidationError{Field: "artists", Reason: fmt.Sprintf("at most %d allowed", MaxSeedArtists)}
	case len(s.Tracks) > MaxSeedTracks:
		return &domain.ValidationError{Field: "tracks", Reason: fmt.Sprintf("at most %d allowed", MaxSeedTracks)}
	case len(s.Genres) > MaxSeedGenres:
		return &domain.ValidationError{Field: "genres", Reason: fmt.Sprintf("at most %d allowed", MaxSeedGenres)}
	}
	return nil
}

// CollectSeeded issues one recommendation call per non-empty seed category.
// A rate limit or a rejected session aborts the whole call; any other
// failure skips that category.
// Seed tracks never come back as candidates.
func (a *Aggregator) CollectSeeded(ctx context.Context, session ports.MusicSession, seeds Seeds, band domain.PopularityBand, limit int) ([]domain.Candidate, error) {
	if err := seeds.Validate(); err != nil {
		return nil, err
	}

	queries := []struct {
		source string
		query  domain.RecommendationQuery
	}{
		{"seed artists", domain.RecommendationQuery{SeedArtists: seeds.Artists}},
		{"seed tracks", domain.RecommendationQuery{SeedTracks: seeds.Tracks}},
		{"seed genres", domain.RecommendationQuery{SeedGenres: seeds.Genres}},
	}

	seedTracks := make(map[string]struct{}, len(seeds.Tracks))
	for _, id := range seeds.Tracks {
		seedTracks[id] = struct{}{}
	}

	var out []domain.Candidate
	for _, q := range queries {
		if q.query.SeedCount() == 0 {
			continue
		}
		q.query.Band = band
		q.query.Market = a.opts.Market
		q.query.Limit = limit

		tracks, err := session.Recommendations(ctx, q.query)
		if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUnauthenticated) {
			return nil, fmt.Errorf("live: %s: %w", q.source, err)
		}
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("source", q.source).Msg("seeded recommendation failed")
			continue
		}
		for _, t := range tracks {
			if _, isSeed := seedTracks[t.ID]; isSeed {
				continue
			}
			out = append(out, domain.Candidate{Track: t, Source: q.source})
		}
	}
	return out, nil
}
