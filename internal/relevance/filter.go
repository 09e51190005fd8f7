// Package relevance reduces a day's candidate papers to the subset worth
// scoring. Exactly one of two strategies runs per batch: a deterministic
// keyword heuristic when no judging service is configured, or a judged
// 0-10 threshold when one is.
package relevance

import (
	"context"
	"log/slog"

	"PaperRadar/internal/domain"
	"PaperRadar/internal/ports"
)

// Filter selects the relevant subset of papers, preserving field values
// and relative input order among kept items.
type Filter interface {
	Filter(ctx context.Context, papers []domain.Paper, topic string) []domain.Paper
}

// New picks the strategy once at construction time: judged when a score
// provider is available, keyword fallback otherwise.
func New(provider ports.ScoreProvider, logger *slog.Logger) Filter {
	if provider == nil {
		if logger != nil {
			logger.Warn("no judging service configured, falling back to keyword filtering")
		}
		return NewKeywordHeuristic(logger)
	}
	return NewJudgedThreshold(provider, logger)
}
