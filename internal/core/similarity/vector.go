package similarity

import (
	"math"

	"github.com/antaww/uta/internal/core/domain"
)

// Centroid is the per-dimension arithmetic mean of vectors.
// It returns nil for an empty input.
func Centroid(vectors []domain.FeatureVector) domain.FeatureVector {
	if len(vectors) == 0 {
		return nil
	}
	c := make(domain.FeatureVector, len(vectors[0]))
	for _, v := range vectors {
		for i := range c {
			c[i] += v[i]
		}
	}
	n := float64(len(vectors))
	for i := range c {
		c[i] /= n
	}
	return c
}

// CosineDistance returns 1 - cos(a, b). A zero-norm vector on either side has
// distance 1.
func CosineDistance(a, b domain.FeatureVector) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// EuclideanDistance is the straight-line distance between a and b.
func EuclideanDistance(a, b domain.FeatureVector) float64 {
	var ss float64
	for i := range a {
		d := a[i] - b[i]
		ss += d * d
	}
	return math.Sqrt(ss)
}

// Scaler standardizes each dimension to zero mean and unit population variance.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes column statistics over rows. Non-finite cells are left
// out of the fit, and a column without variance keeps a scale of 1.
func FitScaler(rows []domain.FeatureVector, dim int) Scaler {
	s := Scaler{Mean: make([]float64, dim), Scale: make([]float64, dim)}
	for j := 0; j < dim; j++ {
		var sum float64
		var n int
		for _, r := range rows {
			if finite(r[j]) {
				sum += r[j]
				n++
			}
		}
		if n == 0 {
			s.Scale[j] = 1
			continue
		}
		mean := sum / float64(n)

		var ss float64
		for _, r := range rows {
			if finite(r[j]) {
				d := r[j] - mean
				ss += d * d
			}
		}
		std := math.Sqrt(ss / float64(n))

		s.Mean[j] = mean
		s.Scale[j] = 1
		if std > 0 {
			s.Scale[j] = std
		}
	}
	return s
}

// Transform returns a standardized copy of v.
func (s Scaler) Transform(v domain.FeatureVector) domain.FeatureVector {
	out := make(domain.FeatureVector, len(v))
	for i := range v {
		out[i] = (v[i] - s.Mean[i]) / s.Scale[i]
	}
	return out
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
