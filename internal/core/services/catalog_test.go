package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/antaww/uta/internal/core/catalog"
	"github.com/antaww/uta/internal/core/domain"
)

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	row := func(name string, year int, v, e, d float64) domain.Track {
		return domain.Track{
			Name:    name,
			Year:    year,
			Artists: []string{"Artist " + name},
			Features: domain.AudioFeatures{
				Valence:      v,
				Energy:       e,
				Danceability: d,
			},
		}
	}
	store, err := catalog.NewStore(domain.Schema{domain.FeatureValence, domain.FeatureEnergy, domain.FeatureDanceability}, []domain.Track{
		row("A", 2001, 0.9, 0.8, 0.1),
		row("B", 2002, 0.85, 0.82, 0.12),
		row("C", 2003, 0.1, 0.2, 0.9),
		row("D", 2004, 0.2, 0.9, 0.5),
		row("E", 2005, 0.5, 0.1, 0.3),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestCatalogRecommender_Recommend(t *testing.T) {
	tests := []struct {
		name       string
		opts       CatalogOptions
		seeds      []domain.CatalogSeed
		n          int
		wantErr    error
		wantLen    int
		wantFirst  string
		wantMissed int
	}{
		{
			name:    "no seeds",
			opts:    CatalogOptions{DefaultCount: 10},
			wantErr: domain.ErrValidation,
		},
		{
			name:      "nearest neighbour first",
			opts:      CatalogOptions{DefaultCount: 10},
			seeds:     []domain.CatalogSeed{{Name: "A", Year: 2001}},
			n:         1,
			wantLen:   1,
			wantFirst: "B",
		},
		{
			name:       "default count and unresolved seeds",
			opts:       CatalogOptions{DefaultCount: 10},
			seeds:      []domain.CatalogSeed{{Name: "A", Year: 2001}, {Name: "Nope", Year: 1999}},
			wantLen:    4,
			wantFirst:  "B",
			wantMissed: 1,
		},
		{
			name:    "max count caps n",
			opts:    CatalogOptions{DefaultCount: 10, MaxCount: 2},
			seeds:   []domain.CatalogSeed{{Name: "c", Year: 2003}},
			n:       50,
			wantLen: 2,
		},
		{
			name:    "nothing resolved",
			opts:    CatalogOptions{DefaultCount: 10},
			seeds:   []domain.CatalogSeed{{Name: "Nope", Year: 1999}},
			wantErr: domain.ErrEmptyResult,
		},
		{
			name:       "nothing resolved with random fallback",
			opts:       CatalogOptions{DefaultCount: 3, RandomFallback: true},
			seeds:      []domain.CatalogSeed{{Name: "Nope", Year: 1999}},
			wantLen:    3,
			wantMissed: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCatalogRecommender(testStore(t), tc.opts)
			got, err := svc.Recommend(context.Background(), tc.seeds, tc.n)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if len(got.Tracks) != tc.wantLen {
				t.Fatalf("got %d tracks, want %d", len(got.Tracks), tc.wantLen)
			}
			if tc.wantFirst != "" && got.Tracks[0].Track.Name != tc.wantFirst {
				t.Fatalf("first = %q, want %q", got.Tracks[0].Track.Name, tc.wantFirst)
			}
			if len(got.Unresolved) != tc.wantMissed {
				t.Fatalf("unresolved = %v, want %d", got.Unresolved, tc.wantMissed)
			}
			for _, r := range got.Tracks {
				for _, s := range tc.seeds {
					if r.Track.Key() == s.Key() {
						t.Fatalf("seed %q returned", s.Name)
					}
				}
			}
		})
	}
}

func TestCatalogRecommender_Deterministic(t *testing.T) {
	svc := NewCatalogRecommender(testStore(t), CatalogOptions{DefaultCount: 10})
	seeds := []domain.CatalogSeed{{Name: "A", Year: 2001}, {Name: "D", Year: 2004}}

	first, err := svc.Recommend(context.Background(), seeds, 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	second, _ := svc.Recommend(context.Background(), seeds, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("catalog recommendations must be deterministic")
	}
}

func TestCatalogRecommender_Search(t *testing.T) {
	svc := NewCatalogRecommender(testStore(t), CatalogOptions{DefaultCount: 10})

	if _, err := svc.Search("", 5); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, err := svc.Search("artist c", 5)
	if err != nil || len(got) != 1 || got[0].Name != "C" {
		t.Fatalf("Search = %+v, %v", got, err)
	}
}
