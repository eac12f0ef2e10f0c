package similarity

import (
	"context"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
)

// Resolution is the outcome of resolving seeds against the catalog.
// Vectors and Tracks are aligned and keep the input order.
type Resolution struct {
	Vectors    []domain.FeatureVector
	Tracks     []domain.Track
	Unresolved []domain.CatalogSeed
}

// Resolver turns caller seeds into catalog rows.
type Resolver struct {
	store ports.CatalogStore
}

func NewResolver(store ports.CatalogStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks every seed up in the catalog. Misses are logged and recorded;
// they never abort the call. A row with non-finite features cannot be used as
// a seed and is treated as a miss.
func (r *Resolver) Resolve(ctx context.Context, seeds []domain.CatalogSeed) Resolution {
	res := Resolution{
		Vectors:    make([]domain.FeatureVector, 0, len(seeds)),
		Tracks:     make([]domain.Track, 0, len(seeds)),
		Unresolved: []domain.CatalogSeed{},
	}
	schema := r.store.Schema()

	for _, seed := range seeds {
		track, ok := r.store.Lookup(seed.Name, seed.Year)
		if !ok {
			logging.Ctx(ctx).Warn().Str("name", seed.Name).Int("year", seed.Year).Msg("seed not found in catalog")
			res.Unresolved = append(res.Unresolved, seed)
			continue
		}

		vec, err := schema.Vector(track)
		if err != nil || !vec.Finite() {
			logging.Ctx(ctx).Warn().Err(err).Str("name", seed.Name).Int("year", seed.Year).Msg("seed has unusable features")
			res.Unresolved = append(res.Unresolved, seed)
			continue
		}

		res.Vectors = append(res.Vectors, vec)
		res.Tracks = append(res.Tracks, track)
	}

	return res
}
