package app

import (
	"context"
	"log/slog"
	"time"

	"PaperRadar/internal/config"
	"PaperRadar/internal/infrastructure/arxiv"
	"PaperRadar/internal/infrastructure/extract"
	"PaperRadar/internal/infrastructure/llm"
	"PaperRadar/internal/infrastructure/scheduler"
	"PaperRadar/internal/infrastructure/telegram"
	"PaperRadar/internal/logging"
	"PaperRadar/internal/ports"
	"PaperRadar/internal/relevance"
	"PaperRadar/internal/report"
	"PaperRadar/internal/scoring"
	"PaperRadar/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. The filter strategy is
// selected here, once, from provider availability.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := arxiv.NewSource(nil, cfg.Arxiv, baseLogger.With("component", "source.arxiv"))

	var provider ports.ScoreProvider
	var extractor ports.TextExtractor
	if cfg.OpenRouter.APIKey != "" {
		provider = llm.NewOpenRouterClient(cfg.OpenRouter)
		extractor = extract.NewArxivHTMLExtractor(nil)
	}

	filter := relevance.New(provider, baseLogger.With("component", "filter"))
	scorer := scoring.NewScorer(provider, extractor, baseLogger.With("component", "scorer"))

	store := report.NewStore(
		cfg.Report.JSONDir,
		cfg.Report.HTMLDir,
		cfg.Report.TemplatePath,
		cfg.Report.IndexPath,
		baseLogger.With("component", "report"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:   source,
		Filter:   filter,
		Scorer:   scorer,
		Store:    store,
		Notifier: notifier,
		Topic:    cfg.Filter.Topic,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}
}

// RunBackfill processes the target date and the days-1 dates before it,
// oldest first. Per-day failures are logged and the remaining days still
// run; a day is re-runnable because persisted record sets short-circuit.
func (a *Application) RunBackfill(ctx context.Context, target time.Time, days int) error {
	if days < 1 {
		days = 1
	}

	for offset := days - 1; offset >= 0; offset-- {
		day := target.AddDate(0, 0, -offset)
		if err := a.pipeline.ProcessDay(ctx, day); err != nil {
			a.logger.Error("day failed", "day", day.Format("2006-01-02"), "error", err)
		}
	}
	return nil
}

// RunDaemon keeps the pipeline running on the configured interval until
// the context is cancelled.
func (a *Application) RunDaemon(ctx context.Context) error {
	driver := scheduler.NewTickerScheduler(a.cfg.Scheduler.IntervalDuration())
	runner := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := runner.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return runner.Stop(context.Background())
}
