package domain

// Candidate is a track proposed by one aggregation source.
// Source is a human-readable provenance tag such as "top artist: X";
// it is never used for ranking.
type Candidate struct {
	Track  Track
	Source string
}

// NameCount pairs a name (artist or genre) with how often it was seen.
type NameCount struct {
	Name  string
	Count int
}

// Summary explains what a live recommendation was based on.
type Summary struct {
	RecentTracks []Track
	TopArtists   []NameCount
	TopGenres    []NameCount
}

// RecommendationQuery describes one service-native recommendation call.
// At least one seed list must be non-empty.
type RecommendationQuery struct {
	SeedArtists   []string
	SeedTracks    []string
	SeedGenres    []string
	Band          PopularityBand
	MinPopularity int // used instead of Band when Band is zero
	Market        string
	Limit         int
}

// SeedCount returns the total number of seeds in the query.
func (q RecommendationQuery) SeedCount() int {
	return len(q.SeedArtists) + len(q.SeedTracks) + len(q.SeedGenres)
}
