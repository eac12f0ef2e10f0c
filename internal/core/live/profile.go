package live

import (
	"context"
	"fmt"
	"sort"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
)

// ArtistCount is a recently played artist and how often it appeared.
type ArtistCount struct {
	ID    string
	Name  string
	Count int
}

// Profile summarises a listener's recent history.
type Profile struct {
	Recent     []domain.Play
	RecentIDs  map[string]struct{}
	TopArtists []ArtistCount
	TopGenres  []domain.NameCount
}

// ProfileOptions bounds how much history the profile looks at.
type ProfileOptions struct {
	HistoryLimit int
	TopArtists   int
	TopGenres    int
}

// BuildProfile reads the recent-play history of session and derives the top
// artists and genres. A failure to read the history is returned as is; a
// failure to read artist genres only leaves the genres empty.
func BuildProfile(ctx context.Context, session ports.MusicSession, opts ProfileOptions) (Profile, error) {
	plays, err := session.RecentlyPlayed(ctx, opts.HistoryLimit)
	if err != nil {
		return Profile{}, fmt.Errorf("live: recently played: %w", err)
	}

	p := Profile{
		Recent:    plays,
		RecentIDs: make(map[string]struct{}, len(plays)),
	}
	for _, pl := range plays {
		if pl.Track.ID != "" {
			p.RecentIDs[pl.Track.ID] = struct{}{}
		}
	}

	p.TopArtists = countArtists(plays, opts.TopArtists)
	if len(p.TopArtists) == 0 {
		p.TopGenres = []domain.NameCount{}
		return p, nil
	}

	ids := make([]string, 0, len(p.TopArtists))
	for _, a := range p.TopArtists {
		if a.ID != "" {
			ids = append(ids, a.ID)
		}
	}
	artists, err := session.Artists(ctx, ids)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("could not load artist genres")
		p.TopGenres = []domain.NameCount{}
		return p, nil
	}

	var genres []string
	for _, a := range artists {
		genres = append(genres, a.Genres...)
	}
	p.TopGenres = rankNames(genres, opts.TopGenres)
	return p, nil
}

// RecentTracks returns up to n distinct recent tracks, most recent first.
func (p Profile) RecentTracks(n int) []domain.Track {
	if n <= 0 {
		return []domain.Track{}
	}
	out := make([]domain.Track, 0, n)
	seen := make(map[string]struct{}, n)
	for _, pl := range p.Recent {
		if len(out) >= n {
			break
		}
		if pl.Track.ID != "" {
			if _, dup := seen[pl.Track.ID]; dup {
				continue
			}
			seen[pl.Track.ID] = struct{}{}
		}
		out = append(out, pl.Track)
	}
	return out
}

// WasPlayed reports whether trackID is in the recent-play set.
func (p Profile) WasPlayed(trackID string) bool {
	_, ok := p.RecentIDs[trackID]
	return ok
}

// Summary describes what a recommendation was based on.
func (p Profile) Summary(recentTracks int) domain.Summary {
	artists := make([]domain.NameCount, len(p.TopArtists))
	for i, a := range p.TopArtists {
		artists[i] = domain.NameCount{Name: a.Name, Count: a.Count}
	}
	return domain.Summary{
		RecentTracks: p.RecentTracks(recentTracks),
		TopArtists:   artists,
		TopGenres:    p.TopGenres,
	}
}

// countArtists ranks artists by play count, ties broken by first appearance.
func countArtists(plays []domain.Play, k int) []ArtistCount {
	var order []string
	counts := map[string]*ArtistCount{}
	for _, pl := range plays {
		for i, name := range pl.Track.Artists {
			id := ""
			if i < len(pl.Track.ArtistIDs) {
				id = pl.Track.ArtistIDs[i]
			}
			key := id
			if key == "" {
				key = name
			}
			if c, ok := counts[key]; ok {
				c.Count++
				continue
			}
			counts[key] = &ArtistCount{ID: id, Name: name, Count: 1}
			order = append(order, key)
		}
	}

	out := make([]ArtistCount, 0, len(order))
	for _, key := range order {
		out = append(out, *counts[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// rankNames counts names and orders them by count, ties by first appearance.
func rankNames(names []string, k int) []domain.NameCount {
	var out []domain.NameCount
	index := map[string]int{}
	for _, n := range names {
		if i, ok := index[n]; ok {
			out[i].Count++
			continue
		}
		index[n] = len(out)
		out = append(out, domain.NameCount{Name: n, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	if out == nil {
		out = []domain.NameCount{}
	}
	return out
}
