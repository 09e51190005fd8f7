package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"PaperRadar/internal/domain"
	"PaperRadar/internal/ports"
	"PaperRadar/internal/relevance"
	"PaperRadar/internal/report"
	"PaperRadar/internal/scoring"
)

// digestLimit caps how many ranked papers go into the notification.
const digestLimit = 10

// PipelineDeps wires all collaborators into the daily batch pipeline.
type PipelineDeps struct {
	Source   ports.PaperSource
	Filter   relevance.Filter
	Scorer   *scoring.Scorer
	Store    *report.Store
	Notifier ports.Notifier
	Topic    string
	Logger   *slog.Logger
}

// Pipeline implements the fetch-filter-score-report workflow for one
// target date per run.
type Pipeline struct {
	source   ports.PaperSource
	filter   relevance.Filter
	scorer   *scoring.Scorer
	store    *report.Store
	notifier ports.Notifier
	topic    string
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:   deps.Source,
		filter:   deps.Filter,
		scorer:   deps.Scorer,
		store:    deps.Store,
		notifier: deps.Notifier,
		topic:    deps.Topic,
		logger:   deps.Logger,
	}
}

// ProcessDay runs one batch for the target date. An already-persisted
// record set short-circuits fetching; an empty fetch is a no-op for the
// date, not an error. Rendering always runs so template changes can be
// re-applied to processed days, but the digest goes out only for days
// whose record set was built in this run.
func (p *Pipeline) ProcessDay(ctx context.Context, day time.Time) error {
	day = day.UTC().Truncate(24 * time.Hour)
	p.info("processing date", "day", day.Format("2006-01-02"))

	fresh := false
	if p.store.HasRecord(day) {
		p.info("record set already exists, skipping fetch", "day", day.Format("2006-01-02"))
	} else {
		done, err := p.buildRecord(ctx, day)
		if err != nil {
			return err
		}
		if !done {
			return nil
		}
		fresh = true
	}

	if err := p.store.RenderHTML(day); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := p.store.UpdateIndex(); err != nil {
		return fmt.Errorf("update index: %w", err)
	}

	if !fresh {
		return nil
	}
	return p.notify(ctx, day)
}

// buildRecord fetches, filters, scores, ranks, and persists a day's
// papers. The second return is false when upstream produced nothing.
func (p *Pipeline) buildRecord(ctx context.Context, day time.Time) (bool, error) {
	papers, err := p.source.FetchDaily(ctx, day)
	if err != nil {
		return false, fmt.Errorf("fetch daily: %w", err)
	}

	if len(papers) == 0 {
		p.warn("no papers found", "day", day.Format("2006-01-02"))
		return false, nil
	}
	p.info("fetched raw papers", "count", len(papers))

	kept := p.filter.Filter(ctx, papers, p.topic)
	scored := p.scorer.Score(ctx, kept)
	ranked := report.Rank(scored)

	if err := p.store.SaveRecord(day, ranked); err != nil {
		return false, fmt.Errorf("persist record set: %w", err)
	}
	return true, nil
}

func (p *Pipeline) notify(ctx context.Context, day time.Time) error {
	if p.notifier == nil {
		return nil
	}

	papers, err := p.store.LoadRecord(day)
	if err != nil {
		return fmt.Errorf("load record set: %w", err)
	}
	if len(papers) == 0 {
		return nil
	}

	digest := buildDigestMessage(day, report.Rank(papers))
	if err := p.notifier.PublishDigest(ctx, digest); err != nil {
		// Notification is best-effort; the report already exists.
		p.warn("publish digest failed", "error", err)
	}
	return nil
}

func buildDigestMessage(day time.Time, ranked []domain.Paper) string {
	if len(ranked) > digestLimit {
		ranked = ranked[:digestLimit]
	}

	message := fmt.Sprintf("*Papers for %s*\n\n", day.Format("2006-01-02"))
	for _, paper := range ranked {
		message += fmt.Sprintf("- %s\nPriority: %d\n%s\n\n",
			paper.Title,
			paper.Priority(),
			paper.URL)
	}
	return message
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
