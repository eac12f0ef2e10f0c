package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/logging"
)

const (
	maxRecommendations = 100
	maxFeatureIDs      = 100
)

// Recommendations calls Spotify's seed-based recommendation endpoint.
func (s *Session) Recommendations(ctx context.Context, q domain.RecommendationQuery) ([]domain.Track, error) {
	if q.SeedCount() == 0 {
		return nil, &domain.ValidationError{Field: "seeds", Reason: "at least one seed is required"}
	}

	limit := q.Limit
	if limit <= 0 || limit > maxRecommendations {
		limit = maxRecommendations
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if len(q.SeedArtists) > 0 {
		query.Set("seed_artists", strings.Join(q.SeedArtists, ","))
	}
	if len(q.SeedTracks) > 0 {
		query.Set("seed_tracks", strings.Join(q.SeedTracks, ","))
	}
	if len(q.SeedGenres) > 0 {
		query.Set("seed_genres", strings.Join(q.SeedGenres, ","))
	}
	if q.Market != "" {
		query.Set("market", q.Market)
	}
	switch {
	case !q.Band.IsZero():
		query.Set("min_popularity", strconv.Itoa(q.Band.Min))
		query.Set("max_popularity", strconv.Itoa(q.Band.Max))
		query.Set("target_popularity", strconv.Itoa(q.Band.Target))
	case q.MinPopularity > 0:
		query.Set("min_popularity", strconv.Itoa(q.MinPopularity))
	}

	var body tracksResponse
	if err := s.client.get(ctx, s.http, "recommendations", "/recommendations", query, &body); err != nil {
		return nil, err
	}
	return mapTracks(body.Tracks), nil
}

// AudioFeatures returns the audio analysis of each track that has one.
// With feature synthesis enabled, tracks without analysis get deterministic
// stand-in features and a 403/404 from the endpoint is not an error.
func (s *Session) AudioFeatures(ctx context.Context, trackIDs []string) (map[string]domain.AudioFeatures, error) {
	out := make(map[string]domain.AudioFeatures, len(trackIDs))

	for start := 0; start < len(trackIDs); start += maxFeatureIDs {
		end := min(start+maxFeatureIDs, len(trackIDs))
		query := url.Values{}
		query.Set("ids", strings.Join(trackIDs[start:end], ","))

		var body audioFeaturesResponse
		err := s.client.get(ctx, s.http, "audio features", "/audio-features", query, &body)
		if err != nil {
			if s.client.synthesize && isStatus(err, http.StatusForbidden, http.StatusNotFound) {
				logging.Ctx(ctx).Warn().Err(err).Msg("audio features unavailable, synthesizing")
				continue
			}
			return nil, err
		}

		for _, f := range body.AudioFeatures {
			if f == nil || f.ID == "" || allFeaturesZero(*f) {
				continue
			}
			out[f.ID] = mapFeatures(*f)
		}
	}

	if s.client.synthesize {
		for _, id := range trackIDs {
			if _, ok := out[id]; !ok {
				out[id] = generateDeterministicFeatures(id)
			}
		}
	}
	return out, nil
}

func isStatus(err error, statuses ...int) bool {
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	for _, s := range statuses {
		if ue.Status == s {
			return true
		}
	}
	return false
}
