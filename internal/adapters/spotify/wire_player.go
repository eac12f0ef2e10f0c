package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/antaww/uta/internal/core/domain"
)

// maxRecentlyPlayed is Spotify's page size limit for the endpoint.
const maxRecentlyPlayed = 50

// RecentlyPlayed returns the listener's recent plays, most recent first.
func (s *Session) RecentlyPlayed(ctx context.Context, limit int) ([]domain.Play, error) {
	if limit <= 0 || limit > maxRecentlyPlayed {
		limit = maxRecentlyPlayed
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var body recentlyPlayedResponse
	if err := s.client.get(ctx, s.http, "recently played", "/me/player/recently-played", query, &body); err != nil {
		return nil, err
	}

	plays := make([]domain.Play, 0, len(body.Items))
	for _, item := range body.Items {
		if item.Track.ID == "" {
			continue
		}
		plays = append(plays, domain.Play{
			Track:    mapTrackToDomain(item.Track, nil),
			PlayedAt: parsePlayedAt(item.PlayedAt),
		})
	}
	return plays, nil
}
