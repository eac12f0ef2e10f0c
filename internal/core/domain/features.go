package domain

import (
	"fmt"
	"math"
)

// AudioFeatures holds the audio analysis attributes of a track.
type AudioFeatures struct {
	Danceability     float64
	Energy           float64
	Key              float64
	Loudness         float64
	Mode             float64
	Speechiness      float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Valence          float64
	Tempo            float64
}

// Feature names one numeric column of a track.
type Feature string

const (
	FeatureValence          Feature = "valence"
	FeatureAcousticness     Feature = "acousticness"
	FeatureDanceability     Feature = "danceability"
	FeatureDuration         Feature = "duration_ms"
	FeatureEnergy           Feature = "energy"
	FeatureInstrumentalness Feature = "instrumentalness"
	FeatureKey              Feature = "key"
	FeatureLiveness         Feature = "liveness"
	FeatureLoudness         Feature = "loudness"
	FeatureMode             Feature = "mode"
	FeatureSpeechiness      Feature = "speechiness"
	FeatureTempo            Feature = "tempo"
	FeatureYear             Feature = "year"
)

// Schema is the fixed, ordered list of features an engine works with.
type Schema []Feature

// CatalogSchema is the feature space of the static catalog engine.
var CatalogSchema = Schema{
	FeatureValence,
	FeatureAcousticness,
	FeatureDanceability,
	FeatureDuration,
	FeatureEnergy,
	FeatureInstrumentalness,
	FeatureKey,
	FeatureLiveness,
	FeatureLoudness,
	FeatureMode,
	FeatureSpeechiness,
	FeatureTempo,
	FeatureYear,
}

// AudioSchema is the 11-dimension audio feature space used on live data.
var AudioSchema = Schema{
	FeatureDanceability,
	FeatureEnergy,
	FeatureKey,
	FeatureLoudness,
	FeatureMode,
	FeatureSpeechiness,
	FeatureAcousticness,
	FeatureInstrumentalness,
	FeatureLiveness,
	FeatureValence,
	FeatureTempo,
}

// FeatureVector is a track's features in schema order.
type FeatureVector []float64

// Finite reports whether every component is a finite number.
func (v FeatureVector) Finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Value returns the value of a single feature of t.
func (f Feature) Value(t Track) (float64, error) {
	a := t.Features
	switch f {
	case FeatureValence:
		return a.Valence, nil
	case FeatureAcousticness:
		return a.Acousticness, nil
	case FeatureDanceability:
		return a.Danceability, nil
	case FeatureDuration:
		return float64(t.DurationMs), nil
	case FeatureEnergy:
		return a.Energy, nil
	case FeatureInstrumentalness:
		return a.Instrumentalness, nil
	case FeatureKey:
		return a.Key, nil
	case FeatureLiveness:
		return a.Liveness, nil
	case FeatureLoudness:
		return a.Loudness, nil
	case FeatureMode:
		return a.Mode, nil
	case FeatureSpeechiness:
		return a.Speechiness, nil
	case FeatureTempo:
		return a.Tempo, nil
	case FeatureYear:
		return float64(t.Year), nil
	default:
		return 0, fmt.Errorf("domain: unknown feature %q", f)
	}
}

// Vector extracts the feature vector of t in schema order.
func (s Schema) Vector(t Track) (FeatureVector, error) {
	vec := make(FeatureVector, len(s))
	for i, f := range s {
		v, err := f.Value(t)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}

// Dim returns the number of dimensions of the schema.
func (s Schema) Dim() int {
	return len(s)
}
