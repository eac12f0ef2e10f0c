package spotify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/antaww/uta/internal/core/domain"
)

const (
	playlistPageSize  = 100
	maxPlaylistPages  = 20
	maxTracksPerWrite = 100
	libraryPageSize   = 50
)

// Playlists lists the playlists of the current user, following pagination.
// limit <= 0 returns every page up to the page cap.
func (s *Session) Playlists(ctx context.Context, limit int) ([]domain.PlaylistSummary, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(libraryPageSize))
	next := s.client.baseURL + "/me/playlists?" + query.Encode()

	var playlists []domain.PlaylistSummary
	for page := 0; next != "" && page < maxPlaylistPages; page++ {
		var body playlistsPage
		if err := s.client.getURL(ctx, s.http, "playlists", next, &body); err != nil {
			return nil, err
		}
		for _, p := range body.Items {
			if p == nil || p.ID == "" {
				continue
			}
			playlists = append(playlists, mapPlaylistToDomain(*p))
			if limit > 0 && len(playlists) == limit {
				return playlists, nil
			}
		}
		next = body.Next
	}
	return playlists, nil
}

// Playlist returns the metadata of one playlist, without its tracks.
func (s *Session) Playlist(ctx context.Context, playlistID string) (domain.PlaylistSummary, error) {
	query := url.Values{}
	query.Set("fields", "id,name,description,public,owner(id,display_name),images,external_urls,tracks.total")

	var body spotifyPlaylist
	if err := s.client.get(ctx, s.http, "playlist", "/playlists/"+url.PathEscape(playlistID), query, &body); err != nil {
		return domain.PlaylistSummary{}, err
	}
	return mapPlaylistToDomain(body), nil
}

// PlaylistTracks returns every track of a playlist, following pagination.
// Local files and removed tracks are skipped.
func (s *Session) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(playlistPageSize))
	next := s.client.baseURL + "/playlists/" + url.PathEscape(playlistID) + "/tracks?" + query.Encode()

	var tracks []domain.Track
	for page := 0; next != "" && page < maxPlaylistPages; page++ {
		var body playlistTracksPage
		if err := s.client.getURL(ctx, s.http, "playlist tracks", next, &body); err != nil {
			return nil, err
		}
		for _, item := range body.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			tracks = append(tracks, mapTrackToDomain(*item.Track, nil))
		}
		next = body.Next
	}
	return tracks, nil
}

// CreatePlaylist creates a playlist owned by the current user and returns its id.
func (s *Session) CreatePlaylist(ctx context.Context, name string, description string, public bool) (string, error) {
	var me spotifyUser
	if err := s.client.get(ctx, s.http, "current user", "/me", nil, &me); err != nil {
		return "", err
	}

	var created spotifyPlaylist
	body := createPlaylistRequest{Name: name, Description: description, Public: public}
	if err := s.client.post(ctx, s.http, "create playlist", "/users/"+url.PathEscape(me.ID)+"/playlists", body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// AddTracksToPlaylist appends tracks to a playlist, 100 per request.
// Spotify requires URIs in the format "spotify:track:{id}".
func (s *Session) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	for start := 0; start < len(trackIDs); start += maxTracksPerWrite {
		end := min(start+maxTracksPerWrite, len(trackIDs))
		uris := make([]string, 0, end-start)
		for _, id := range trackIDs[start:end] {
			uris = append(uris, "spotify:track:"+id)
		}
		path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
		if err := s.client.post(ctx, s.http, "add playlist tracks", path, addTracksRequest{Uris: uris}, nil); err != nil {
			return err
		}
	}
	return nil
}
