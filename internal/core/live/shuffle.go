package live

import "math/rand/v2"

// Rand is the subset of *rand.Rand used for shuffling.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a PCG-backed source with a random seed.
func NewRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// ShuffleAndTruncate returns a shuffled copy of list holding at most limit
// items. list is left untouched.
func ShuffleAndTruncate[T any](rng Rand, list []T, limit int) []T {
	if limit <= 0 || len(list) == 0 {
		return []T{}
	}
	out := make([]T, len(list))
	copy(out, list)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
