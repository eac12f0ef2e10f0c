package spotify

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/antaww/uta/internal/core/domain"
)

// generateDeterministicFeatures derives stable stand-in features from a track
// id, for tracks Spotify has no analysis for.
func generateDeterministicFeatures(trackID string) domain.AudioFeatures {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(trackID))
	// #nosec G404 -- deterministic RNG for reproducible audio features, not security-sensitive
	rng := rand.New(rand.NewPCG(hasher.Sum64(), 0))

	between := func(min, max float64) float64 {
		return min + rng.Float64()*(max-min)
	}

	return domain.AudioFeatures{
		Danceability:     between(0.1, 0.9),
		Energy:           between(0.1, 0.9),
		Key:              float64(rng.IntN(12)),
		Loudness:         between(-20, -3),
		Mode:             float64(rng.IntN(2)),
		Speechiness:      between(0.02, 0.3),
		Acousticness:     between(0.1, 0.9),
		Instrumentalness: between(0.1, 0.9),
		Liveness:         between(0.05, 0.4),
		Valence:          between(0.1, 0.9),
		Tempo:            between(60.0, 180.0),
	}
}

func allFeaturesZero(features spotifyAudioFeatures) bool {
	return features.Danceability == 0 &&
		features.Energy == 0 &&
		features.Valence == 0 &&
		features.Tempo == 0 &&
		features.Instrumentalness == 0 &&
		features.Acousticness == 0
}
