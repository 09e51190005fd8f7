package relevance

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"PaperRadar/internal/domain"
)

// Term sets for the degraded-availability fallback. A paper must name a
// core entity; assembly or optional context alone never qualifies.
var (
	coreTerms     = []string{"peptide", "protein", "biomolecule", "polypeptide", "supramolecular"}
	assemblyTerms = []string{"self-assembly", "co-assembly", "aggregation", "assembly"}
	optionalTerms = []string{"dataset", "simulation", "screening"}
)

// KeywordHeuristic keeps papers whose title+abstract pair a core entity
// term with either assembly or optional context. It is stricter than a
// keyword union: "protein" alone is rejected, while peptide+dataset
// papers pass even without the word "assembly".
type KeywordHeuristic struct {
	logger *slog.Logger
}

var _ Filter = (*KeywordHeuristic)(nil)

// NewKeywordHeuristic builds the deterministic fallback strategy.
func NewKeywordHeuristic(logger *slog.Logger) *KeywordHeuristic {
	return &KeywordHeuristic{logger: logger}
}

// Filter returns the order-preserving subsequence of relevant papers.
// The topic argument is ignored; the term sets are fixed.
func (k *KeywordHeuristic) Filter(_ context.Context, papers []domain.Paper, _ string) []domain.Paper {
	filtered := make([]domain.Paper, 0, len(papers))

	for _, paper := range papers {
		haystack := strings.ToLower(paper.Title + " " + paper.Summary)

		hasCore := containsAny(haystack, coreTerms)
		hasAssembly := containsAny(haystack, assemblyTerms)
		hasOptional := containsAny(haystack, optionalTerms)

		switch {
		case hasCore && hasAssembly:
			filtered = append(filtered, paper)
			k.log("keep", paper.Title)
		case hasCore && hasOptional:
			filtered = append(filtered, paper)
			k.log("keep-optional", paper.Title)
		default:
			k.log("drop", paper.Title)
		}
	}

	if k.logger != nil {
		k.logger.Info("keyword filter done", "kept", len(filtered), "total", len(papers))
	}
	return filtered
}

func (k *KeywordHeuristic) log(verdict, title string) {
	if k.logger != nil {
		k.logger.Debug("keyword filter", "verdict", verdict, "title", truncate(title, 60))
	}
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
