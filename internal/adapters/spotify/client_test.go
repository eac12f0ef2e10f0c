package spotify_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antaww/uta/internal/adapters/spotify"
	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
)

// --- Helpers ---

func newTestClient(t *testing.T, h http.Handler, mutate ...func(*spotify.Config)) *spotify.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	cfg := spotify.Config{
		BaseURL:      ts.URL,
		TokenURL:     ts.URL + "/token",
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return spotify.NewClient(cfg, ts.Client())
}

func newSession(t *testing.T, c *spotify.Client) ports.MusicSession {
	t.Helper()
	s, err := c.Session(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	return s
}

func compareTracks(t *testing.T, got, want domain.Track) {
	t.Helper()

	if got.ID != want.ID {
		t.Errorf("ID: got %v, want %v", got.ID, want.ID)
	}
	if got.Name != want.Name {
		t.Errorf("Name: got %v, want %v", got.Name, want.Name)
	}
	if got.ArtistLine() != want.ArtistLine() {
		t.Errorf("Artists: got %v, want %v", got.Artists, want.Artists)
	}
	if got.Year != want.Year {
		t.Errorf("Year: got %v, want %v", got.Year, want.Year)
	}
	if got.Popularity != want.Popularity {
		t.Errorf("Popularity: got %v, want %v", got.Popularity, want.Popularity)
	}
	if got.DurationMs != want.DurationMs {
		t.Errorf("DurationMs: got %v, want %v", got.DurationMs, want.DurationMs)
	}
}

const trackJSON = `{
	"id": "t1",
	"name": "Hounds of Love",
	"duration_ms": 183000,
	"popularity": 61,
	"external_urls": {"spotify": "https://open.spotify.com/track/t1"},
	"artists": [{"id": "a1", "name": "Kate Bush"}],
	"album": {"name": "Hounds of Love", "release_date": "1985-09-16", "images": [{"url": "https://img/1"}]}
}`

// --- Tests ---

func TestSession_RequiresToken(t *testing.T) {
	c := spotify.NewClient(spotify.Config{}, nil)
	if _, err := c.Session(context.Background(), "  "); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRecentlyPlayed(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/recently-played" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization: got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit: got %q, want 50", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[{"track":`+trackJSON+`,"played_at":"2024-03-01T10:00:00Z"},{"track":{"id":""},"played_at":""}]}`)
	}))

	plays, err := newSession(t, c).RecentlyPlayed(context.Background(), 500)
	if err != nil {
		t.Fatalf("RecentlyPlayed: %v", err)
	}
	if len(plays) != 1 {
		t.Fatalf("expected 1 play, got %d", len(plays))
	}
	compareTracks(t, plays[0].Track, domain.Track{
		ID: "t1", Name: "Hounds of Love", Artists: []string{"Kate Bush"}, Year: 1985, Popularity: 61, DurationMs: 183000,
	})
	if plays[0].Track.CoverURL != "https://img/1" {
		t.Errorf("CoverURL: got %q", plays[0].Track.CoverURL)
	}
	if plays[0].PlayedAt.IsZero() {
		t.Error("PlayedAt was not parsed")
	}
}

func TestArtists_SkipsNullEntries(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "a1,a2" {
			t.Errorf("ids: got %q", got)
		}
		_, _ = io.WriteString(w, `{"artists":[{"id":"a1","name":"Kate Bush","genres":["art pop"],"popularity":70},null]}`)
	}))

	artists, err := newSession(t, c).Artists(context.Background(), []string{"a1", "a2"})
	if err != nil {
		t.Fatalf("Artists: %v", err)
	}
	if len(artists) != 1 || artists[0].Genres[0] != "art pop" {
		t.Fatalf("unexpected artists: %+v", artists)
	}
}

func TestArtistTopTracks(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists/a1/top-tracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("market"); got != "US" {
			t.Errorf("market: got %q", got)
		}
		_, _ = io.WriteString(w, `{"tracks":[`+trackJSON+`]}`)
	}))

	tracks, err := newSession(t, c).ArtistTopTracks(context.Background(), "a1", "US")
	if err != nil {
		t.Fatalf("ArtistTopTracks: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "t1" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}
}

func TestRecommendations_Query(t *testing.T) {
	tests := []struct {
		name  string
		query domain.RecommendationQuery
		want  map[string]string
		unset []string
	}{
		{
			name: "popularity band",
			query: domain.RecommendationQuery{
				SeedArtists: []string{"a1", "a2"},
				Band:        domain.NewPopularityBand(50),
				Market:      "US",
				Limit:       5,
			},
			want: map[string]string{
				"seed_artists":      "a1,a2",
				"min_popularity":    "40",
				"max_popularity":    "60",
				"target_popularity": "50",
				"market":            "US",
				"limit":             "5",
			},
			unset: []string{"seed_tracks", "seed_genres"},
		},
		{
			name: "popularity floor only",
			query: domain.RecommendationQuery{
				SeedTracks:    []string{"t1"},
				MinPopularity: 30,
				Limit:         10,
			},
			want: map[string]string{
				"seed_tracks":    "t1",
				"min_popularity": "30",
				"limit":          "10",
			},
			unset: []string{"max_popularity", "target_popularity", "market"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				for k, v := range tt.want {
					if got := q.Get(k); got != v {
						t.Errorf("%s: got %q, want %q", k, got, v)
					}
				}
				for _, k := range tt.unset {
					if q.Has(k) {
						t.Errorf("%s should not be sent", k)
					}
				}
				_, _ = io.WriteString(w, `{"tracks":[`+trackJSON+`]}`)
			}))

			tracks, err := newSession(t, c).Recommendations(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Recommendations: %v", err)
			}
			if len(tracks) != 1 {
				t.Fatalf("expected 1 track, got %d", len(tracks))
			}
		})
	}
}

func TestRecommendations_NoSeeds(t *testing.T) {
	c := spotify.NewClient(spotify.Config{}, nil)
	s, _ := c.Session(context.Background(), "tok")
	if _, err := s.Recommendations(context.Background(), domain.RecommendationQuery{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAudioFeatures(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"audio_features":[
			{"id":"t1","danceability":0.5,"energy":0.8,"tempo":120},
			null,
			{"id":"t3"}
		]}`)
	})

	t.Run("missing entries are dropped", func(t *testing.T) {
		c := newTestClient(t, handler)
		got, err := newSession(t, c).AudioFeatures(context.Background(), []string{"t1", "t2", "t3"})
		if err != nil {
			t.Fatalf("AudioFeatures: %v", err)
		}
		if len(got) != 1 || got["t1"].Energy != 0.8 {
			t.Fatalf("unexpected features: %+v", got)
		}
	})

	t.Run("missing entries are synthesized when enabled", func(t *testing.T) {
		c := newTestClient(t, handler, func(cfg *spotify.Config) { cfg.SynthesizeMissingFeatures = true })
		got, err := newSession(t, c).AudioFeatures(context.Background(), []string{"t1", "t2", "t3"})
		if err != nil {
			t.Fatalf("AudioFeatures: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(got))
		}
		if got["t1"].Energy != 0.8 {
			t.Errorf("real features were overwritten: %+v", got["t1"])
		}
	})

	t.Run("forbidden endpoint is synthesized when enabled", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}), func(cfg *spotify.Config) { cfg.SynthesizeMissingFeatures = true })
		got, err := newSession(t, c).AudioFeatures(context.Background(), []string{"t1"})
		if err != nil {
			t.Fatalf("AudioFeatures: %v", err)
		}
		if _, ok := got["t1"]; !ok {
			t.Fatal("expected synthesized features for t1")
		}
	})
}

func TestPlaylistTracks_FollowsPagination(t *testing.T) {
	var base string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "" {
			_, _ = io.WriteString(w, `{"items":[{"track":`+trackJSON+`},{"track":null}],"next":"`+base+`/playlists/p1/tracks?offset=100"}`)
			return
		}
		_, _ = io.WriteString(w, `{"items":[{"track":{"id":"t2","name":"Cloudbusting"}}],"next":null}`)
	}), func(cfg *spotify.Config) { base = cfg.BaseURL })

	tracks, err := newSession(t, c).PlaylistTracks(context.Background(), "p1")
	if err != nil {
		t.Fatalf("PlaylistTracks: %v", err)
	}
	if len(tracks) != 2 || tracks[1].ID != "t2" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}
}

func TestCreatePlaylistAndAddTracks(t *testing.T) {
	var added []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/me":
			_, _ = io.WriteString(w, `{"id":"u1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/users/u1/playlists":
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `"name":"Mix"`) {
				t.Errorf("unexpected body %s", body)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"p9","name":"Mix"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/playlists/p9/tracks":
			body, _ := io.ReadAll(r.Body)
			added = append(added, string(body))
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"snapshot_id":"s"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	s := newSession(t, c)
	id, err := s.CreatePlaylist(context.Background(), "Mix", "made for you", false)
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	if id != "p9" {
		t.Fatalf("playlist id: got %q", id)
	}

	ids := make([]string, 150)
	for i := range ids {
		ids[i] = "x"
	}
	if err := s.AddTracksToPlaylist(context.Background(), id, ids); err != nil {
		t.Fatalf("AddTracksToPlaylist: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(added))
	}
	if !strings.Contains(added[0], "spotify:track:x") {
		t.Errorf("uris not prefixed: %s", added[0])
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    map[string]string
		target    error
		retryHint time.Duration
	}{
		{name: "401 is unauthenticated", status: http.StatusUnauthorized, target: domain.ErrUnauthenticated},
		{name: "429 carries retry hint", status: http.StatusTooManyRequests, header: map[string]string{"Retry-After": "7"}, target: domain.ErrRateLimited, retryHint: 7 * time.Second},
		{name: "404 is upstream", status: http.StatusNotFound, target: domain.ErrUpstream},
		{name: "500 is upstream", status: http.StatusInternalServerError, target: domain.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"status":0,"message":"nope"}}`)
			}), func(cfg *spotify.Config) { cfg.MaxRetries = 3 })

			_, err := newSession(t, c).ArtistTopTracks(context.Background(), "a1", "US")
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if tt.retryHint > 0 {
				d, ok := domain.RetryAfter(err)
				if !ok || d != tt.retryHint {
					t.Fatalf("RetryAfter: got %v, %v", d, ok)
				}
			}
			if tt.status == http.StatusTooManyRequests && calls.Load() != 1 {
				t.Fatalf("429 must not be retried, got %d calls", calls.Load())
			}
		})
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	s := newSession(t, c)

	for i := 0; i < 10; i++ {
		if _, err := s.ArtistTopTracks(context.Background(), "a1", ""); !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
	}

	_, err := s.ArtistTopTracks(context.Background(), "a1", "")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error from open breaker, got %v", err)
	}
	if calls.Load() != 10 {
		t.Fatalf("open breaker should short-circuit, server saw %d calls", calls.Load())
	}
}

func TestSearchArtists(t *testing.T) {
	t.Run("requires application credentials", func(t *testing.T) {
		c := spotify.NewClient(spotify.Config{}, nil)
		if _, err := c.SearchArtists(context.Background(), "kate", 5); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("uses application token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"app","token_type":"bearer","expires_in":3600}`)
		})
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer app" {
				t.Errorf("Authorization: got %q", got)
			}
			q := r.URL.Query()
			if q.Get("type") != "artist" || q.Get("q") != "kate" || q.Get("limit") != "5" {
				t.Errorf("unexpected query %v", q)
			}
			_, _ = io.WriteString(w, `{"artists":{"items":[{"id":"a1","name":"Kate Bush","genres":["art pop"]}]}}`)
		})

		c := newTestClient(t, mux, func(cfg *spotify.Config) {
			cfg.ClientID = "id"
			cfg.ClientSecret = "secret"
		})
		artists, err := c.SearchArtists(context.Background(), "kate", 5)
		if err != nil {
			t.Fatalf("SearchArtists: %v", err)
		}
		if len(artists) != 1 || artists[0].Name != "Kate Bush" {
			t.Fatalf("unexpected artists: %+v", artists)
		}
	})
}

func TestPlaylists(t *testing.T) {
	var base string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/playlists" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("offset") == "" {
			_, _ = io.WriteString(w, `{"items":[
				{"id":"pl1","name":"Road trip","public":true,"owner":{"id":"u1","display_name":"Ana"},
				 "images":[{"url":"https://img/1"}],"tracks":{"total":12}},
				null
			],"next":"`+base+`/me/playlists?offset=50"}`)
			return
		}
		_, _ = io.WriteString(w, `{"items":[{"id":"pl2","name":"Focus","owner":{"id":"u1"},"tracks":{"total":3}}],"next":null}`)
	}), func(cfg *spotify.Config) { base = cfg.BaseURL })

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all pages", limit: 0, want: []string{"pl1", "pl2"}},
		{name: "limited", limit: 1, want: []string{"pl1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := newSession(t, c).Playlists(context.Background(), tc.limit)
			if err != nil {
				t.Fatalf("Playlists: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d playlists, got %+v", len(tc.want), got)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("playlist %d: got %q, want %q", i, got[i].ID, id)
				}
			}
			first := got[0]
			if first.Owner != "Ana" || !first.Public || first.TrackCount != 12 || first.ImageURL != "https://img/1" {
				t.Fatalf("unexpected mapping %+v", first)
			}
		})
	}
}

func TestPlaylist_Metadata(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/pl2" || r.URL.Query().Get("fields") == "" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = io.WriteString(w, `{"id":"pl2","name":"Focus","description":"deep work","owner":{"id":"u1"},"tracks":{"total":3}}`)
	}))

	got, err := newSession(t, c).Playlist(context.Background(), "pl2")
	if err != nil {
		t.Fatalf("Playlist: %v", err)
	}
	if got.Name != "Focus" || got.Description != "deep work" || got.Owner != "u1" || got.TrackCount != 3 {
		t.Fatalf("unexpected playlist %+v", got)
	}
}

func TestSavedTracks(t *testing.T) {
	type call struct {
		method string
		body   string
	}
	var calls []call
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/tracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{method: r.Method, body: string(body)})
		w.WriteHeader(http.StatusOK)
	}))
	s := newSession(t, c)

	ids := make([]string, 60)
	for i := range ids {
		ids[i] = "t" + strings.Repeat("x", i%3)
	}
	if err := s.SaveTracks(context.Background(), ids); err != nil {
		t.Fatalf("SaveTracks: %v", err)
	}
	if err := s.RemoveSavedTracks(context.Background(), []string{"gone"}); err != nil {
		t.Fatalf("RemoveSavedTracks: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("expected 2 save chunks and 1 removal, got %d calls", len(calls))
	}
	if calls[0].method != http.MethodPut || calls[1].method != http.MethodPut || calls[2].method != http.MethodDelete {
		t.Fatalf("unexpected methods %+v", calls)
	}
	if got := strings.Count(calls[0].body, `"t`); got != 50 {
		t.Fatalf("first chunk should carry 50 ids, got %d", got)
	}
	if calls[2].body != `{"ids":["gone"]}` {
		t.Fatalf("unexpected removal body %s", calls[2].body)
	}
}
