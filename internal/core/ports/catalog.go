package ports

import "github.com/antaww/uta/internal/core/domain"

// CatalogStore is the read-only, in-memory view of the catalog.
type CatalogStore interface {
	Lookup(name string, year int) (domain.Track, bool)
	All() []domain.Track
	Vectors() []domain.FeatureVector
	Schema() domain.Schema
	Search(query string, limit int) []domain.Track
	Len() int
}
