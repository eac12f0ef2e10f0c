package similarity

import (
	"math/rand/v2"
	"sort"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
)

// Rand is the subset of *rand.Rand the ranker needs.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// RandFactory creates a fresh random source for one call.
type RandFactory func() Rand

// NewRand returns a PCG-backed source with a random seed.
func NewRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Ranked is one ranked row. HasDistance is false for rows picked by the random
// fallback.
type Ranked struct {
	Track       domain.Track
	Distance    float64
	HasDistance bool
}

// Metric measures how far a row is from the centroid.
type Metric func(a, b domain.FeatureVector) float64

// Ranker orders a fixed set of rows by distance to the centroid of the seed
// vectors, in a space standardized over all rows unless WithRawFeatures is
// set. The metric is cosine
// distance unless configured otherwise.
type Ranker struct {
	tracks  []domain.Track
	vectors []domain.FeatureVector
	dim     int
	metric  Metric
	newRand RandFactory
	raw     bool
}

type RankerOption func(*Ranker)

// WithMetric replaces cosine distance.
func WithMetric(m Metric) RankerOption {
	return func(r *Ranker) {
		r.metric = m
	}
}

// WithRawFeatures measures distances in the unscaled feature space.
func WithRawFeatures() RankerOption {
	return func(r *Ranker) {
		r.raw = true
	}
}

// WithRandFactory replaces the random source used by the fallback.
func WithRandFactory(f RandFactory) RankerOption {
	return func(r *Ranker) {
		r.newRand = f
	}
}

// NewRanker ranks the rows of a catalog store.
func NewRanker(store ports.CatalogStore, opts ...RankerOption) *Ranker {
	return NewRowRanker(store.All(), store.Vectors(), store.Schema().Dim(), opts...)
}

// NewRowRanker ranks an arbitrary set of rows. tracks and vectors must be aligned
// and every vector must have dim components.
func NewRowRanker(tracks []domain.Track, vectors []domain.FeatureVector, dim int, opts ...RankerOption) *Ranker {
	r := &Ranker{
		tracks:  tracks,
		vectors: vectors,
		dim:     dim,
		metric:  CosineDistance,
		newRand: NewRand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank returns up to n rows closest to the centroid of resolved, skipping rows
// whose catalog key is in exclude and rows with non-finite features. Ties keep
// table order. With no resolved vectors it returns n random eligible rows.
func (r *Ranker) Rank(resolved []domain.FeatureVector, exclude []domain.CatalogKey, n int) []Ranked {
	if n <= 0 {
		return []Ranked{}
	}

	excluded := make(map[domain.CatalogKey]struct{}, len(exclude))
	for _, k := range exclude {
		excluded[k] = struct{}{}
	}

	eligible := make([]int, 0, len(r.tracks))
	for i, t := range r.tracks {
		if _, skip := excluded[t.Key()]; skip {
			continue
		}
		if !r.vectors[i].Finite() {
			continue
		}
		eligible = append(eligible, i)
	}

	if len(resolved) == 0 {
		return r.random(eligible, n)
	}

	transform := func(v domain.FeatureVector) domain.FeatureVector { return v }
	if !r.raw {
		transform = FitScaler(r.vectors, r.dim).Transform
	}
	centroid := transform(Centroid(resolved))

	ranked := make([]Ranked, 0, len(eligible))
	for _, i := range eligible {
		ranked = append(ranked, Ranked{
			Track:       r.tracks[i],
			Distance:    r.metric(centroid, transform(r.vectors[i])),
			HasDistance: true,
		})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Distance < ranked[b].Distance
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func (r *Ranker) random(eligible []int, n int) []Ranked {
	picks := make([]int, len(eligible))
	copy(picks, eligible)
	r.newRand().Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})
	if len(picks) > n {
		picks = picks[:n]
	}

	out := make([]Ranked, len(picks))
	for i, p := range picks {
		out[i] = Ranked{Track: r.tracks[p]}
	}
	return out
}
