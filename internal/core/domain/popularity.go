package domain

// PopularityTolerance is the half-width of a popularity band.
const PopularityTolerance = 10

// PopularityBand is an inclusive popularity range around a target.
type PopularityBand struct {
	Target int
	Min    int
	Max    int
}

// NewPopularityBand returns [target-10, target+10] clamped to [0,100].
// The target itself is clamped to the same range.
func NewPopularityBand(target int) PopularityBand {
	target = clampPopularity(target)
	return PopularityBand{
		Target: target,
		Min:    clampPopularity(target - PopularityTolerance),
		Max:    clampPopularity(target + PopularityTolerance),
	}
}

// IsZero reports whether the band was never set.
func (b PopularityBand) IsZero() bool {
	return b == PopularityBand{}
}

func clampPopularity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
