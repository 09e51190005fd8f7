// Package scoring augments filtered papers with a structured multi-
// dimension evaluation. Scoring is strictly an enhancement layer: with
// no judging service it is a passthrough, and any per-paper failure
// leaves that paper exactly as it arrived.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"PaperRadar/internal/domain"
	"PaperRadar/internal/ports"
)

const (
	// maxFullTextChars bounds the extracted full text embedded per prompt.
	maxFullTextChars = 10000

	// evaluationMaxTokens leaves room for a few hundred words of
	// structured output.
	evaluationMaxTokens = 800

	// rawExcerptLimit bounds logged raw responses on parse failures.
	rawExcerptLimit = 100
)

const evaluationPromptTemplate = `# Role
You are an experienced researcher in machine learning for biomolecules and peptide self-assembly, skilled at quickly evaluating the potential value of research papers.

# Task
Based on the paper's title and abstract, summarize it and score it across multiple dimensions (1-10 points, 1 being the lowest, 10 being the highest).
Finally, provide an overall preliminary priority score.

# Input
Paper Title: %s
Paper Abstract: %s
Paper Full Text: %s

# My Research Interests
- Peptide self-assembly, co-assembly, and aggregation
- Machine learning for peptides and biomolecules
- Datasets for peptide structure, aggregation or assembly
- Computational screening or simulation of structure or assembly/aggregation of peptides

# Output Requirements
Output must be valid JSON (RFC8259). Please output the evaluation and explanations in the following JSON format:

{
  "tldr": "<short summary in English>",
  "explanation": "<detailed explanation in English>",
  "interests_alignment": "<explanation of alignment with my research interests in English>",
  "relevance_score": <int>,
  "novelty_claim_score": <int>,
  "clarity_score": <int>,
  "potential_impact_score": <int>,
  "overall_priority_score": <int>
}

# Scoring Guidelines
- Relevance: Focus on whether it is directly related to the research interests I provided.
- Novelty: Evaluate the degree of innovation claimed in the abstract regarding the method or viewpoint compared to known work.
- Clarity: Evaluate whether the abstract itself is easy to understand and complete with essential elements.
- Potential Impact: Evaluate the importance of the problem it claims to solve and the potential application value of the results.
- Overall Priority: Provide an overall score combining all the above factors. A high score indicates suggested priority for reading.`

// Scorer produces structured evaluations through the score provider,
// optionally enriching prompts with extracted full text.
type Scorer struct {
	provider  ports.ScoreProvider
	extractor ports.TextExtractor
	logger    *slog.Logger
}

// NewScorer wires the judging service and the optional text extractor.
func NewScorer(provider ports.ScoreProvider, extractor ports.TextExtractor, logger *slog.Logger) *Scorer {
	return &Scorer{provider: provider, extractor: extractor, logger: logger}
}

// Score returns the same papers in the same order, each either augmented
// with evaluation fields or left untouched. Without a provider the whole
// operation is a logged no-op.
func (s *Scorer) Score(ctx context.Context, papers []domain.Paper) []domain.Paper {
	if s.provider == nil {
		if s.logger != nil {
			s.logger.Warn("no judging service configured, skipping priority scoring")
		}
		return papers
	}

	if s.logger != nil {
		s.logger.Info("scoring papers", "count", len(papers))
	}

	scored := make([]domain.Paper, 0, len(papers))
	for i, paper := range papers {
		scored = append(scored, s.attemptScore(ctx, i, len(papers), paper))
	}
	return scored
}

// attemptScore returns the paper with evaluation fields merged in, or
// the original value unchanged on any failure along the way.
func (s *Scorer) attemptScore(ctx context.Context, index, total int, paper domain.Paper) domain.Paper {
	prompt := fmt.Sprintf(evaluationPromptTemplate,
		paper.Title, paper.Summary, s.fullText(ctx, paper))

	answer, err := s.provider.Evaluate(ctx, prompt, evaluationMaxTokens)
	if err != nil {
		s.warn(index, total, "evaluation call failed", "error", err)
		return paper
	}
	if answer == "" {
		s.warn(index, total, "empty evaluation response")
		return paper
	}

	eval, err := ParseEvaluation(answer)
	if err != nil {
		s.warn(index, total, "failed to parse evaluation",
			"error", err, "raw", truncate(answer, rawExcerptLimit))
		return paper
	}

	paper.Evaluation = &eval
	if s.logger != nil {
		s.logger.Info("paper scored",
			"paper", fmt.Sprintf("%d/%d", index+1, total),
			"priority", eval.OverallPriorityScore)
	}
	return paper
}

// fullText resolves the extended judging input for one paper; extraction
// failure degrades to the "N/A" marker rather than aborting the batch.
func (s *Scorer) fullText(ctx context.Context, paper domain.Paper) string {
	text := paper.FullText
	if text == "" && s.extractor != nil && paper.PDFURL != "" {
		extracted, err := s.extractor.Extract(ctx, paper.PDFURL)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("full text extraction failed",
					"url", paper.PDFURL, "error", err)
			}
		} else {
			text = extracted
		}
	}

	if text == "" {
		return "N/A"
	}
	return truncateRunes(text, maxFullTextChars)
}

// truncateRunes bounds s to limit characters without splitting a
// multi-byte rune.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func (s *Scorer) warn(index, total int, msg string, args ...any) {
	if s.logger != nil {
		args = append([]any{"paper", fmt.Sprintf("%d/%d", index+1, total)}, args...)
		s.logger.Warn(msg, args...)
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
