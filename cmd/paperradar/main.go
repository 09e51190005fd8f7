package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"PaperRadar/internal/app"
	"PaperRadar/internal/config"
	"PaperRadar/internal/logging"
)

const dayFormat = "2006-01-02"

func main() {
	cliApp := &cli.App{
		Name:  "paperradar",
		Usage: "Fetch, filter, and rank daily arXiv peptide/self-assembly papers",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Process a date (plus optional backfill window) once",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: fmt.Sprintf("Target date (%s), defaults to today UTC", dayFormat),
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Number of days ending at the target date to process",
						Value: 90,
					},
				},
				Action: runOnce,
			},
			{
				Name:   "daemon",
				Usage:  "Stay resident and re-run the pipeline on the configured interval",
				Action: runDaemon,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runOnce(c *cli.Context) error {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	target := time.Now().UTC()
	if raw := c.String("date"); raw != "" {
		parsed, err := time.Parse(dayFormat, raw)
		if err != nil {
			return fmt.Errorf("invalid date %q, use %s", raw, dayFormat)
		}
		target = parsed
	}

	application := app.New(cfg, logger)
	return application.RunBackfill(context.Background(), target, c.Int("days"))
}

func runDaemon(c *cli.Context) error {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)
	return application.RunDaemon(c.Context)
}
