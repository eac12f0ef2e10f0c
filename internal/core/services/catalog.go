package services

import (
	"context"
	"fmt"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/core/similarity"
	"github.com/antaww/uta/internal/logging"
	"github.com/antaww/uta/internal/metrics"
)

// CatalogOptions tunes the catalog engine.
type CatalogOptions struct {
	DefaultCount int
	MaxCount     int
	// RandomFallback returns random catalog rows when no seed resolves,
	// instead of an empty-result error.
	RandomFallback bool
}

// CatalogResult is a ranked catalog recommendation.
type CatalogResult struct {
	Tracks     []similarity.Ranked
	InputSongs []domain.Track
	Unresolved []domain.CatalogSeed
}

// CatalogRecommender recommends catalog rows similar to caller seeds.
type CatalogRecommender struct {
	store    ports.CatalogStore
	resolver *similarity.Resolver
	ranker   *similarity.Ranker
	opts     CatalogOptions
}

// NewCatalogRecommender constructs a CatalogRecommender over an immutable store.
func NewCatalogRecommender(store ports.CatalogStore, opts CatalogOptions, rankerOpts ...similarity.RankerOption) *CatalogRecommender {
	return &CatalogRecommender{
		store:    store,
		resolver: similarity.NewResolver(store),
		ranker:   similarity.NewRanker(store, rankerOpts...),
		opts:     opts,
	}
}

// Recommend returns up to n catalog rows closest to the seeds. n <= 0 means
// the configured default.
func (s *CatalogRecommender) Recommend(ctx context.Context, seeds []domain.CatalogSeed, n int) (CatalogResult, error) {
	if len(seeds) == 0 {
		return CatalogResult{}, &domain.ValidationError{Field: "songs", Reason: "at least one song is required"}
	}
	if n <= 0 {
		n = s.opts.DefaultCount
	}
	if s.opts.MaxCount > 0 && n > s.opts.MaxCount {
		n = s.opts.MaxCount
	}

	res := s.resolver.Resolve(ctx, seeds)
	if len(res.Vectors) == 0 && !s.opts.RandomFallback {
		return CatalogResult{}, &domain.EmptyResultError{Reason: "none of the songs were found in the catalog"}
	}

	exclude := make([]domain.CatalogKey, len(seeds))
	for i, seed := range seeds {
		exclude[i] = seed.Key()
	}

	ranked := s.ranker.Rank(res.Vectors, exclude, n)
	logging.Ctx(ctx).Debug().
		Int("seeds", len(seeds)).
		Int("resolved", len(res.Vectors)).
		Int("returned", len(ranked)).
		Msg("catalog recommendation")
	metrics.RecordServed("catalog", len(ranked))

	return CatalogResult{
		Tracks:     ranked,
		InputSongs: res.Tracks,
		Unresolved: res.Unresolved,
	}, nil
}

// Search finds catalog rows by name or artist.
func (s *CatalogRecommender) Search(query string, limit int) ([]domain.Track, error) {
	if query == "" {
		return nil, &domain.ValidationError{Field: "query", Reason: "is required"}
	}
	if s.opts.MaxCount > 0 && limit > s.opts.MaxCount {
		limit = s.opts.MaxCount
	}
	return s.store.Search(query, limit), nil
}

// CatalogSize returns the number of rows in the store.
func (s *CatalogRecommender) CatalogSize() int {
	return s.store.Len()
}

func wrap(op string, err error) error {
	return fmt.Errorf("service: %s: %w", op, err)
}
