package rest

import (
	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/similarity"
)

type songRequest struct {
	Name string `json:"name" validate:"required"`
	Year int    `json:"year" validate:"gte=0"`
}

type catalogRecommendationRequest struct {
	Songs []songRequest `json:"songs" validate:"required,min=1,dive"`
	Count int           `json:"count" validate:"gte=0"`
}

type customRecommendationRequest struct {
	Artists          []string `json:"artists" validate:"max=5,dive,required"`
	Tracks           []string `json:"tracks" validate:"max=5,dive,required"`
	Genres           []string `json:"genres" validate:"max=3,dive,required"`
	TargetPopularity int      `json:"target_popularity" validate:"gte=0,lte=100"`
}

type playlistSuggestionsRequest struct {
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

type clusterPlaylistRequest struct {
	Name string `json:"name" validate:"max=100"`
}

type libraryTracksRequest struct {
	TrackIDs []string `json:"track_ids" validate:"required,min=1,max=50,dive,required"`
}

type featuresResponse struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              float64 `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             float64 `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
}

type trackResponse struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album,omitempty"`
	Year        int      `json:"year,omitempty"`
	DurationMs  int      `json:"duration_ms,omitempty"`
	Popularity  int      `json:"popularity"`
	Explicit    bool     `json:"explicit"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	ExternalURL string   `json:"external_url,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Source      string   `json:"source,omitempty"`
}

type catalogTrackResponse struct {
	trackResponse
	Features featuresResponse `json:"features"`
	Distance *float64         `json:"distance,omitempty"`
}

type nameCountResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type catalogRecommendationResponse struct {
	Recommendations []catalogTrackResponse `json:"recommendations"`
	BasedOn         struct {
		InputSongs []catalogTrackResponse `json:"input_songs"`
	} `json:"based_on"`
	Unresolved []songRequest `json:"unresolved,omitempty"`
}

type liveRecommendationResponse struct {
	Tracks  []trackResponse `json:"tracks"`
	BasedOn struct {
		RecentTracks []trackResponse    `json:"recent_tracks"`
		TopArtists   []nameCountResponse `json:"top_artists"`
		TopGenres    []nameCountResponse `json:"top_genres"`
	} `json:"based_on"`
}

type customRecommendationResponse struct {
	Tracks  []trackResponse `json:"tracks"`
	BasedOn struct {
		SelectedArtists []string `json:"selected_artists"`
		SelectedTracks  []string `json:"selected_tracks"`
		SelectedGenres  []string `json:"selected_genres"`
	} `json:"based_on"`
}

type tracksResponse struct {
	Tracks []trackResponse `json:"tracks"`
}

type artistResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

type artistsResponse struct {
	Artists []artistResponse `json:"artists"`
}

type suggestionsResponse struct {
	Suggestions []trackResponse `json:"suggestions"`
}

type clusterResponse struct {
	Message    string           `json:"message"`
	PlaylistID string           `json:"playlist_id"`
	Name       string           `json:"name"`
	Tracks     []trackResponse  `json:"tracks"`
	Profile    featuresResponse `json:"profile"`
}

type playlistResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Public      bool   `json:"public"`
	TrackCount  int    `json:"track_count"`
	ImageURL    string `json:"image_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

type playlistsResponse struct {
	Playlists []playlistResponse `json:"playlists"`
}

type playlistDetailsResponse struct {
	playlistResponse
	Tracks []trackResponse `json:"tracks"`
}

func toTrackResponse(t domain.Track) trackResponse {
	artists := t.Artists
	if artists == nil {
		artists = []string{}
	}
	return trackResponse{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album,
		Year:        t.Year,
		DurationMs:  t.DurationMs,
		Popularity:  t.Popularity,
		Explicit:    t.Explicit,
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURL,
		CoverURL:    t.CoverURL,
	}
}

func toTrackResponses(tracks []domain.Track) []trackResponse {
	out := make([]trackResponse, len(tracks))
	for i, t := range tracks {
		out[i] = toTrackResponse(t)
	}
	return out
}

func toCandidateResponses(cands []domain.Candidate) []trackResponse {
	out := make([]trackResponse, len(cands))
	for i, c := range cands {
		out[i] = toTrackResponse(c.Track)
		out[i].Source = c.Source
	}
	return out
}

func toPlaylistResponse(p domain.PlaylistSummary) playlistResponse {
	return playlistResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner,
		Public:      p.Public,
		TrackCount:  p.TrackCount,
		ImageURL:    p.ImageURL,
		ExternalURL: p.ExternalURL,
	}
}

func toFeaturesResponse(f domain.AudioFeatures) featuresResponse {
	return featuresResponse{
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

func toCatalogTrackResponse(t domain.Track) catalogTrackResponse {
	return catalogTrackResponse{
		trackResponse: toTrackResponse(t),
		Features:      toFeaturesResponse(t.Features),
	}
}

func toRankedResponse(r similarity.Ranked) catalogTrackResponse {
	resp := toCatalogTrackResponse(r.Track)
	if r.HasDistance {
		d := r.Distance
		resp.Distance = &d
	}
	return resp
}

func toNameCounts(in []domain.NameCount) []nameCountResponse {
	out := make([]nameCountResponse, len(in))
	for i, nc := range in {
		out[i] = nameCountResponse{Name: nc.Name, Count: nc.Count}
	}
	return out
}

func toArtistResponse(a domain.Artist) artistResponse {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return artistResponse{ID: a.ID, Name: a.Name, Genres: genres, Popularity: a.Popularity}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
