package domain

import "errors"

var ErrDuplicateTrack = errors.New("domain: duplicate track")

// PlaylistSummary is a playlist as listed in a listener's library.
type PlaylistSummary struct {
	ID          string
	Name        string
	Description string
	Owner       string
	Public      bool
	TrackCount  int
	ImageURL    string
	ExternalURL string
}

type Playlist struct {
	ID     string
	Name   string
	Tracks []Track
}

func NewPlaylist(id, name string) (*Playlist, error) {
	if id == "" || name == "" {
		return nil, errors.New("domain: invalid argument")
	}
	return &Playlist{
		ID:     id,
		Name:   name,
		Tracks: []Track{},
	}, nil
}

// AddTrack appends a track to the playlist while preventing duplicate IDs.
// Tracks without an ID are always appended.
func (p *Playlist) AddTrack(t Track) error {
	if t.ID != "" && p.Contains(t.ID) {
		return ErrDuplicateTrack
	}
	p.Tracks = append(p.Tracks, t)
	return nil
}

// Contains reports whether a track with the given ID is in the playlist.
func (p *Playlist) Contains(trackID string) bool {
	for _, ex := range p.Tracks {
		if ex.ID != "" && ex.ID == trackID {
			return true
		}
	}
	return false
}

// Analyze returns the mean audio features of the playlist.
func (p *Playlist) Analyze() AudioFeatures {
	if len(p.Tracks) == 0 {
		return AudioFeatures{}
	}

	var sum AudioFeatures
	for _, t := range p.Tracks {
		f := t.Features
		sum.Danceability += f.Danceability
		sum.Energy += f.Energy
		sum.Key += f.Key
		sum.Loudness += f.Loudness
		sum.Mode += f.Mode
		sum.Speechiness += f.Speechiness
		sum.Acousticness += f.Acousticness
		sum.Instrumentalness += f.Instrumentalness
		sum.Liveness += f.Liveness
		sum.Valence += f.Valence
		sum.Tempo += f.Tempo
	}

	n := float64(len(p.Tracks))
	return AudioFeatures{
		Danceability:     sum.Danceability / n,
		Energy:           sum.Energy / n,
		Key:              sum.Key / n,
		Loudness:         sum.Loudness / n,
		Mode:             sum.Mode / n,
		Speechiness:      sum.Speechiness / n,
		Acousticness:     sum.Acousticness / n,
		Instrumentalness: sum.Instrumentalness / n,
		Liveness:         sum.Liveness / n,
		Valence:          sum.Valence / n,
		Tempo:            sum.Tempo / n,
	}
}
