package spotify

// spotifyTrack represents the Spotify API response for a track.
type spotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DurationMs   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	PreviewURL   string          `json:"preview_url"`
	ExternalURLs externalURLs    `json:"external_urls"`
	Artists      []spotifyArtist `json:"artists"`
	Album        spotifyAlbum    `json:"album"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyAlbum struct {
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL string `json:"url"`
}

// spotifyArtist is the full or simplified artist object.
type spotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

// spotifyAudioFeatures is one entry of /audio-features.
type spotifyAudioFeatures struct {
	ID               string  `json:"id"`
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

type recentlyPlayedResponse struct {
	Items []struct {
		Track    spotifyTrack `json:"track"`
		PlayedAt string       `json:"played_at"`
	} `json:"items"`
}

type tracksResponse struct {
	Tracks []*spotifyTrack `json:"tracks"`
}

type artistsResponse struct {
	Artists []*spotifyArtist `json:"artists"`
}

type artistSearchResponse struct {
	Artists struct {
		Items []spotifyArtist `json:"items"`
	} `json:"artists"`
}

type audioFeaturesResponse struct {
	AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
}

type playlistTracksPage struct {
	Items []struct {
		Track *spotifyTrack `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

type spotifyUser struct {
	ID string `json:"id"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type spotifyPlaylist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Public       bool           `json:"public"`
	Owner        spotifyOwner   `json:"owner"`
	Images       []spotifyImage `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
	Tracks       struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type spotifyOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistsPage struct {
	Items []*spotifyPlaylist `json:"items"`
	Next  string             `json:"next"`
}

type savedTracksRequest struct {
	IDs []string `json:"ids"`
}

// addTracksRequest represents the request body for adding tracks to a playlist.
type addTracksRequest struct {
	Uris []string `json:"uris"`
}

type spotifyErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
