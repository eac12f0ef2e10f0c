package spotify

import (
	"strconv"
	"time"

	"github.com/antaww/uta/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a clean Domain track.
// features can be nil when the endpoint does not provide them.
func mapTrackToDomain(st spotifyTrack, features *spotifyAudioFeatures) domain.Track {
	names := make([]string, 0, len(st.Artists))
	ids := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		names = append(names, a.Name)
		ids = append(ids, a.ID)
	}

	coverURL := ""
	if len(st.Album.Images) > 0 {
		coverURL = st.Album.Images[0].URL
	}

	dt := domain.Track{
		ID:          st.ID,
		Name:        st.Name,
		Artists:     names,
		ArtistIDs:   ids,
		Album:       st.Album.Name,
		Year:        releaseYear(st.Album.ReleaseDate),
		DurationMs:  st.DurationMs,
		Popularity:  st.Popularity,
		Explicit:    st.Explicit,
		PreviewURL:  st.PreviewURL,
		ExternalURL: st.ExternalURLs.Spotify,
		CoverURL:    coverURL,
	}

	if features != nil {
		dt.Features = mapFeatures(*features)
	}

	return dt
}

func mapFeatures(f spotifyAudioFeatures) domain.AudioFeatures {
	return domain.AudioFeatures{
		Danceability:     f.Danceability,
		Energy:           f.Energy,
		Key:              f.Key,
		Loudness:         f.Loudness,
		Mode:             f.Mode,
		Speechiness:      f.Speechiness,
		Acousticness:     f.Acousticness,
		Instrumentalness: f.Instrumentalness,
		Liveness:         f.Liveness,
		Valence:          f.Valence,
		Tempo:            f.Tempo,
	}
}

func mapTracks(raw []*spotifyTrack) []domain.Track {
	tracks := make([]domain.Track, 0, len(raw))
	for _, st := range raw {
		if st == nil || st.ID == "" {
			continue
		}
		tracks = append(tracks, mapTrackToDomain(*st, nil))
	}
	return tracks
}

func mapArtistToDomain(a spotifyArtist) domain.Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return domain.Artist{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     genres,
		Popularity: a.Popularity,
	}
}

func mapPlaylistToDomain(p spotifyPlaylist) domain.PlaylistSummary {
	owner := p.Owner.DisplayName
	if owner == "" {
		owner = p.Owner.ID
	}
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0].URL
	}
	return domain.PlaylistSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       owner,
		Public:      p.Public,
		TrackCount:  p.Tracks.Total,
		ImageURL:    image,
		ExternalURL: p.ExternalURLs.Spotify,
	}
}

// releaseYear reads the year of a "YYYY", "YYYY-MM" or "YYYY-MM-DD" date.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func parsePlayedAt(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
