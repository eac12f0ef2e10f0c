package catalog

import (
	"sort"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
)

// DefaultSearchLimit caps Search when the caller passes a non-positive limit.
const DefaultSearchLimit = 10

type searchHit struct {
	pos   int
	score float64
}

// Search returns rows whose normalized name or artists contain the normalized
// query, best fuzzy match first. Ties keep table order.
func (s *Store) Search(query string, limit int) []domain.Track {
	q := Normalize(query)
	if q == "" {
		return []domain.Track{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	hits := make([]searchHit, 0)
	for i, t := range s.tracks {
		name := Normalize(t.Name)
		artists := Normalize(strings.Join(t.Artists, " "))
		if !strings.Contains(name, q) && !strings.Contains(artists, q) {
			continue
		}
		hits = append(hits, searchHit{pos: i, score: scoreRow(q, name, artists)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.Track, len(hits))
	for i, h := range hits {
		out[i] = s.tracks[h.pos]
	}
	return out
}

// scoreRow is the best of the name, artist and "artist name" similarities.
func scoreRow(q, name, artists string) float64 {
	combined := strings.TrimSpace(artists + " " + name)
	return max(similarity(q, name), similarity(q, artists), similarity(q, combined))
}
