package live

import (
	"context"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/logging"
	"github.com/antaww/uta/internal/metrics"
)

// Source names.
const (
	SourceArtist  = "artist"
	SourceGenre   = "genre"
	SourceSimilar = "similar"
)

// SourceResult is the outcome of one aggregation source: either candidates or
// the reason it failed.
type SourceResult struct {
	Source     string
	Candidates []domain.Candidate
	Err        error
}

func (r SourceResult) OK() bool {
	return r.Err == nil
}

// SourceFunc produces the candidates of one source.
type SourceFunc func(ctx context.Context) ([]domain.Candidate, error)

// Run executes fn and turns any failure into a failed result. A failure is
// logged with the source name and never propagates to the caller.
func Run(ctx context.Context, source string, fn SourceFunc) SourceResult {
	candidates, err := fn(ctx)
	metrics.RecordSource(source, len(candidates), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("source", source).Msg("recommendation source failed")
		return SourceResult{Source: source, Err: err}
	}
	return SourceResult{Source: source, Candidates: candidates}
}

// Combine concatenates the candidates of successful results in order.
func Combine(results []SourceResult) []domain.Candidate {
	var n int
	for _, r := range results {
		n += len(r.Candidates)
	}
	out := make([]domain.Candidate, 0, n)
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Candidates...)
		}
	}
	return out
}
