package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"PaperRadar/internal/domain"
	"PaperRadar/internal/ports"
)

const (
	// keepThreshold is the fixed relevance cutoff on the 0-10 scale.
	keepThreshold = 6

	// maxFullTextChars bounds the prompt size per paper.
	maxFullTextChars = 10000

	// relevanceMaxTokens bounds the short classification response.
	relevanceMaxTokens = 5
)

// JudgedThreshold asks the score provider for a 0-10 relevance verdict
// per paper and keeps those at or above the threshold. A provider error
// or an unparseable answer counts as 0 for that paper only.
type JudgedThreshold struct {
	provider ports.ScoreProvider
	logger   *slog.Logger
}

var _ Filter = (*JudgedThreshold)(nil)

// NewJudgedThreshold builds the judged strategy.
func NewJudgedThreshold(provider ports.ScoreProvider, logger *slog.Logger) *JudgedThreshold {
	return &JudgedThreshold{provider: provider, logger: logger}
}

// Filter returns the order-preserving subsequence of relevant papers.
func (j *JudgedThreshold) Filter(ctx context.Context, papers []domain.Paper, topic string) []domain.Paper {
	if j.logger != nil {
		j.logger.Info("judging papers", "count", len(papers), "topic", topic)
	}

	filtered := make([]domain.Paper, 0, len(papers))
	for i, paper := range papers {
		score := j.judge(ctx, paper, topic)
		if score >= keepThreshold {
			filtered = append(filtered, paper)
			j.log("keep", i, len(papers), paper.Title, score)
		} else {
			j.log("drop", i, len(papers), paper.Title, score)
		}
	}

	if j.logger != nil {
		j.logger.Info("judged filter done", "kept", len(filtered), "total", len(papers))
	}
	return filtered
}

func (j *JudgedThreshold) judge(ctx context.Context, paper domain.Paper, topic string) int {
	prompt := buildRelevancePrompt(paper, topic)

	answer, err := j.provider.Evaluate(ctx, prompt, relevanceMaxTokens)
	if err != nil {
		if j.logger != nil {
			j.logger.Warn("relevance call failed", "title", truncate(paper.Title, 60), "error", err)
		}
		return 0
	}

	return parseRelevanceScore(answer)
}

func buildRelevancePrompt(paper domain.Paper, topic string) string {
	fullText := paper.FullText
	if fullText == "" {
		fullText = "N/A"
	}
	fullText = truncateRunes(fullText, maxFullTextChars)

	return fmt.Sprintf(
		"On a scale from 0 (not relevant) to 10 (highly relevant), "+
			"how relevant is this paper to research in '%s'? "+
			"Output only an integer.\n\nTitle: %s\nAbstract: %s\n\nFull Text: %s",
		topic, paper.Title, paper.Summary, fullText)
}

// truncateRunes bounds s to limit characters without splitting a
// multi-byte rune.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// parseRelevanceScore takes the first whitespace-delimited token of the
// trimmed answer; anything unparseable is the weakest signal, 0.
func parseRelevanceScore(answer string) int {
	fields := strings.Fields(strings.TrimSpace(answer))
	if len(fields) == 0 {
		return 0
	}

	score, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return score
}

func (j *JudgedThreshold) log(verdict string, index, total int, title string, score int) {
	if j.logger != nil {
		j.logger.Info("judged filter",
			"verdict", verdict,
			"paper", fmt.Sprintf("%d/%d", index+1, total),
			"score", score,
			"title", truncate(title, 100))
	}
}
