package catalog

import (
	"fmt"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
)

// Store is the immutable in-memory catalog. It is built once at startup and
// shared read-only between requests.
type Store struct {
	schema  domain.Schema
	tracks  []domain.Track
	vectors []domain.FeatureVector
	index   map[domain.CatalogKey]int
}

// NewStore validates every row against schema and indexes it by (name, year).
// When two rows share a key the first one in table order wins the index.
func NewStore(schema domain.Schema, tracks []domain.Track) (*Store, error) {
	if schema.Dim() == 0 {
		return nil, &domain.ValidationError{Field: "schema", Reason: "must name at least one feature"}
	}

	s := &Store{
		schema:  schema,
		tracks:  make([]domain.Track, len(tracks)),
		vectors: make([]domain.FeatureVector, len(tracks)),
		index:   make(map[domain.CatalogKey]int, len(tracks)),
	}
	copy(s.tracks, tracks)

	for i, t := range s.tracks {
		if strings.TrimSpace(t.Name) == "" {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("row %d", i), Reason: "name is empty"}
		}
		vec, err := schema.Vector(t)
		if err != nil {
			return nil, fmt.Errorf("catalog: row %d: %w", i, err)
		}
		if len(vec) != schema.Dim() {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("row %d", i),
				Reason: fmt.Sprintf("expected %d features, got %d", schema.Dim(), len(vec)),
			}
		}
		s.vectors[i] = vec

		key := t.Key()
		if _, seen := s.index[key]; !seen {
			s.index[key] = i
		}
	}

	return s, nil
}

// Lookup finds a row by case-insensitive name and exact year.
func (s *Store) Lookup(name string, year int) (domain.Track, bool) {
	i, ok := s.index[domain.NewCatalogKey(name, year)]
	if !ok {
		return domain.Track{}, false
	}
	return s.tracks[i], true
}

// All returns every row in table order. Callers must not modify the slice.
func (s *Store) All() []domain.Track {
	return s.tracks
}

// Vectors returns the feature vector of every row in table order.
// Callers must not modify the slice.
func (s *Store) Vectors() []domain.FeatureVector {
	return s.vectors
}

func (s *Store) Schema() domain.Schema {
	return s.schema
}

func (s *Store) Len() int {
	return len(s.tracks)
}
