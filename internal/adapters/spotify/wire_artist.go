package spotify

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
)

const (
	maxArtistIDs      = 50
	maxSearchArtists  = 50
	defaultSearchSize = 10
)

// Artists fetches full artist objects, genres included, in batches.
func (s *Session) Artists(ctx context.Context, ids []string) ([]domain.Artist, error) {
	out := make([]domain.Artist, 0, len(ids))
	for start := 0; start < len(ids); start += maxArtistIDs {
		end := min(start+maxArtistIDs, len(ids))
		query := url.Values{}
		query.Set("ids", strings.Join(ids[start:end], ","))

		var body artistsResponse
		if err := s.client.get(ctx, s.http, "artists", "/artists", query, &body); err != nil {
			return nil, err
		}
		for _, a := range body.Artists {
			if a != nil {
				out = append(out, mapArtistToDomain(*a))
			}
		}
	}
	return out, nil
}

// ArtistTopTracks returns an artist's top tracks in a market.
func (s *Session) ArtistTopTracks(ctx context.Context, artistID string, market string) ([]domain.Track, error) {
	query := url.Values{}
	if market != "" {
		query.Set("market", market)
	}

	var body tracksResponse
	if err := s.client.get(ctx, s.http, "artist top tracks", "/artists/"+url.PathEscape(artistID)+"/top-tracks", query, &body); err != nil {
		return nil, err
	}
	return mapTracks(body.Tracks), nil
}

// SearchArtists searches artists by name with the application token.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]domain.Artist, error) {
	if c.appClient == nil {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = defaultSearchSize
	}
	if limit > maxSearchArtists {
		limit = maxSearchArtists
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "artist")
	q.Set("limit", strconv.Itoa(limit))

	var body artistSearchResponse
	if err := c.get(ctx, c.appClient, "search artists", "/search", q, &body); err != nil {
		return nil, err
	}

	out := make([]domain.Artist, 0, len(body.Artists.Items))
	for _, a := range body.Artists.Items {
		out = append(out, mapArtistToDomain(a))
	}
	return out, nil
}
