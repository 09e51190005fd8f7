package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaperRadar/internal/domain"
)

type stubProvider struct {
	evaluate func(prompt string, maxTokens int) (string, error)
}

func (s stubProvider) Evaluate(_ context.Context, prompt string, maxTokens int) (string, error) {
	return s.evaluate(prompt, maxTokens)
}

type stubExtractor struct {
	extract func(locator string) (string, error)
}

func (s stubExtractor) Extract(_ context.Context, locator string) (string, error) {
	return s.extract(locator)
}

func TestScoreWithoutProviderIsPassthrough(t *testing.T) {
	t.Parallel()

	papers := []domain.Paper{
		{Title: "one", Summary: "a"},
		{Title: "two", Summary: "b"},
	}

	scored := NewScorer(nil, nil, nil).Score(context.Background(), papers)

	assert.Equal(t, papers, scored)
	for _, paper := range scored {
		assert.False(t, paper.Scored())
	}
}

func TestScoreMergesEvaluation(t *testing.T) {
	t.Parallel()

	provider := stubProvider{evaluate: func(string, int) (string, error) {
		return validAnswer, nil
	}}

	papers := []domain.Paper{{Title: "one", Summary: "a", URL: "u"}}
	scored := NewScorer(provider, nil, nil).Score(context.Background(), papers)

	require.Len(t, scored, 1)
	require.True(t, scored[0].Scored())
	assert.Equal(t, wantEvaluation(), *scored[0].Evaluation)

	// Existing fields survive the merge untouched.
	assert.Equal(t, "one", scored[0].Title)
	assert.Equal(t, "a", scored[0].Summary)
	assert.Equal(t, "u", scored[0].URL)
	assert.Equal(t, 8, scored[0].Priority())
}

func TestScoreParseFailureLeavesPaperUnmodified(t *testing.T) {
	t.Parallel()

	provider := stubProvider{evaluate: func(string, int) (string, error) {
		return "not json at all {", nil
	}}

	original := domain.Paper{Title: "one", Summary: "a", URL: "u", PDFURL: "p"}
	scored := NewScorer(provider, nil, nil).Score(context.Background(), []domain.Paper{original})

	require.Len(t, scored, 1)
	assert.Equal(t, original, scored[0])
	assert.False(t, scored[0].Scored())
}

func TestScoreFailureIsolation(t *testing.T) {
	t.Parallel()

	calls := 0
	provider := stubProvider{evaluate: func(string, int) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("timeout")
		}
		return validAnswer, nil
	}}

	papers := []domain.Paper{
		{Title: "first"},
		{Title: "second"},
		{Title: "third"},
	}

	scored := NewScorer(provider, nil, nil).Score(context.Background(), papers)

	require.Len(t, scored, 3)
	assert.True(t, scored[0].Scored())
	assert.False(t, scored[1].Scored())
	assert.True(t, scored[2].Scored())
	assert.Equal(t, papers[1], scored[1], "failed paper must be byte-identical")
}

func TestScoreIdempotentMerge(t *testing.T) {
	t.Parallel()

	provider := stubProvider{evaluate: func(string, int) (string, error) {
		return validAnswer, nil
	}}
	scorer := NewScorer(provider, nil, nil)

	papers := []domain.Paper{{Title: "one", Summary: "a"}}
	once := scorer.Score(context.Background(), papers)
	twice := scorer.Score(context.Background(), once)

	require.Len(t, twice, 1)
	assert.Equal(t, *once[0].Evaluation, *twice[0].Evaluation)
	assert.Equal(t, once[0].Title, twice[0].Title)
}

func TestScorePromptUsesExtractedFullText(t *testing.T) {
	t.Parallel()

	var prompt string
	var tokens int
	provider := stubProvider{evaluate: func(p string, m int) (string, error) {
		prompt = p
		tokens = m
		return validAnswer, nil
	}}
	extractor := stubExtractor{extract: func(locator string) (string, error) {
		assert.Equal(t, "https://arxiv.org/pdf/1234.5", locator)
		return strings.Repeat("body ", 3000), nil
	}}

	papers := []domain.Paper{{Title: "one", Summary: "a", PDFURL: "https://arxiv.org/pdf/1234.5"}}
	NewScorer(provider, extractor, nil).Score(context.Background(), papers)

	assert.Equal(t, evaluationMaxTokens, tokens)
	assert.Contains(t, prompt, "Paper Title: one")
	assert.Contains(t, prompt, "body body")
	assert.NotContains(t, prompt, strings.Repeat("body ", 3000), "full text must be truncated")
}

func TestScoreTruncatesFullTextOnRuneBoundary(t *testing.T) {
	t.Parallel()

	var prompt string
	provider := stubProvider{evaluate: func(p string, _ int) (string, error) {
		prompt = p
		return validAnswer, nil
	}}
	long := strings.Repeat("é", maxFullTextChars+10)
	extractor := stubExtractor{extract: func(string) (string, error) {
		return long, nil
	}}

	papers := []domain.Paper{{Title: "multibyte", Summary: "a", PDFURL: "https://arxiv.org/pdf/1"}}
	NewScorer(provider, extractor, nil).Score(context.Background(), papers)

	require.True(t, utf8.ValidString(prompt), "truncation must not split a rune")
	assert.Contains(t, prompt, strings.Repeat("é", maxFullTextChars))
	assert.NotContains(t, prompt, long)
}

func TestScoreExtractionFailureDegradesToNA(t *testing.T) {
	t.Parallel()

	var prompt string
	provider := stubProvider{evaluate: func(p string, _ int) (string, error) {
		prompt = p
		return validAnswer, nil
	}}
	extractor := stubExtractor{extract: func(string) (string, error) {
		return "", errors.New("unreachable")
	}}

	papers := []domain.Paper{{Title: "one", Summary: "a", PDFURL: "https://arxiv.org/pdf/1234.5"}}
	scored := NewScorer(provider, extractor, nil).Score(context.Background(), papers)

	assert.Contains(t, prompt, "Paper Full Text: N/A")
	require.Len(t, scored, 1)
	assert.True(t, scored[0].Scored(), "extraction failure must not block scoring")
}
