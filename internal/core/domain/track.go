package domain

import (
	"strings"
	"time"
)

// Track is a music track as seen by both recommendation engines.
// Catalog rows may lack a stable ID; they are identified by their CatalogKey.
type Track struct {
	ID          string
	Name        string
	Artists     []string
	ArtistIDs   []string
	Album       string
	Year        int
	DurationMs  int
	Popularity  int // 0-100
	Explicit    bool
	PreviewURL  string
	ExternalURL string
	CoverURL    string
	Features    AudioFeatures
}

// CatalogKey indexes catalog rows: lower-cased name, exact year.
type CatalogKey struct {
	Name string
	Year int
}

// NewCatalogKey builds the case-insensitive lookup key for a name and year.
func NewCatalogKey(name string, year int) CatalogKey {
	return CatalogKey{Name: strings.ToLower(strings.TrimSpace(name)), Year: year}
}

// Key returns the catalog key of the track.
func (t Track) Key() CatalogKey {
	return NewCatalogKey(t.Name, t.Year)
}

// ArtistLine joins the artist names for display.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// CatalogSeed references a catalog row by name and release year.
type CatalogSeed struct {
	Name string
	Year int
}

// Key returns the lookup key of the seed.
func (s CatalogSeed) Key() CatalogKey {
	return NewCatalogKey(s.Name, s.Year)
}

// Play is one entry of a listener's recent-play history.
type Play struct {
	Track    Track
	PlayedAt time.Time
}

// Artist is an artist as returned by the streaming service.
type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
}
