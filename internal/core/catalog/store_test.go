package catalog

import (
	"errors"
	"testing"

	"github.com/antaww/uta/internal/core/domain"
)

func row(name string, year int, artists ...string) domain.Track {
	return domain.Track{
		Name:    name,
		Year:    year,
		Artists: artists,
		Features: domain.AudioFeatures{
			Valence: 0.5,
			Energy:  0.5,
		},
	}
}

func TestNewStore_Lookup(t *testing.T) {
	first := row("Hello", 2015, "Adele")
	first.ID = "first"
	dup := row("hello", 2015, "Someone Else")
	dup.ID = "dup"

	store, err := NewStore(domain.CatalogSchema, []domain.Track{
		first,
		row("Hello", 1983, "Lionel Richie"),
		dup,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	tests := []struct {
		name   string
		qName  string
		qYear  int
		wantOK bool
		wantID string
	}{
		{name: "case-insensitive name", qName: "HELLO", qYear: 2015, wantOK: true, wantID: "first"},
		{name: "year is exact", qName: "hello", qYear: 2016, wantOK: false},
		{name: "other year row", qName: "Hello ", qYear: 1983, wantOK: true},
		{name: "unknown", qName: "Someone Like You", qYear: 2011, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := store.Lookup(tt.qName, tt.qYear)
			if ok != tt.wantOK {
				t.Fatalf("Lookup ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantID != "" && got.ID != tt.wantID {
				t.Fatalf("Lookup returned %q, want %q (first row wins)", got.ID, tt.wantID)
			}
		})
	}

	if store.Len() != 3 || len(store.All()) != 3 || len(store.Vectors()) != 3 {
		t.Fatalf("duplicates must still be part of the table")
	}
	for i, v := range store.Vectors() {
		if len(v) != domain.CatalogSchema.Dim() {
			t.Fatalf("row %d has %d dims", i, len(v))
		}
	}
}

func TestNewStore_RejectsEmptyName(t *testing.T) {
	_, err := NewStore(domain.CatalogSchema, []domain.Track{row("ok", 2000), row(" ", 2001)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewStore_RejectsEmptySchema(t *testing.T) {
	if _, err := NewStore(nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStore_Search(t *testing.T) {
	store, err := NewStore(domain.CatalogSchema, []domain.Track{
		row("Bohemian Rhapsody", 1975, "Queen"),
		row("Under Pressure", 1981, "Queen", "David Bowie"),
		row("Heroes", 1977, "David Bowie"),
		row("Radio Ga Ga", 1984, "Queen"),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	tests := []struct {
		name      string
		query     string
		limit     int
		wantFirst string
		wantLen   int
	}{
		{name: "empty query", query: "", wantLen: 0},
		{name: "by name", query: "heroes", wantFirst: "Heroes", wantLen: 1},
		{name: "by artist", query: "bowie", wantLen: 2},
		{name: "limit applies", query: "queen", limit: 2, wantLen: 2},
		{name: "no match", query: "metallica", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Search(tt.query, tt.limit)
			if len(got) != tt.wantLen {
				t.Fatalf("Search(%q) returned %d rows, want %d", tt.query, len(got), tt.wantLen)
			}
			if tt.wantFirst != "" && got[0].Name != tt.wantFirst {
				t.Fatalf("first hit %q, want %q", got[0].Name, tt.wantFirst)
			}
		})
	}
}
