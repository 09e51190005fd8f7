package ports

import (
	"context"
	"time"

	"PaperRadar/internal/domain"
)

// PaperSource pulls candidate papers submitted on the given UTC day.
type PaperSource interface {
	FetchDaily(ctx context.Context, day time.Time) ([]domain.Paper, error)
}

// ScoreProvider is the judging-service boundary. The same call serves
// short classification answers (a few tokens) and longer structured
// evaluations; maxTokens bounds the response size per request.
type ScoreProvider interface {
	Evaluate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// TextExtractor dereferences a paper locator into plain text for judging.
type TextExtractor interface {
	Extract(ctx context.Context, locator string) (string, error)
}

// Notifier streams ranked digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
