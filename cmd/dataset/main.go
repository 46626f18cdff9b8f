package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/riskibarqy/match-predictor/internal/app"
	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

type options struct {
	seasons         []int
	output          string
	minHistoryGames int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseOptions(os.Args[1:], cfg.HistorySeasons)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("command", "dataset")
	logging.SetDefault(logger)

	if err := run(cfg, opts, logger); err != nil {
		logger.Error("dataset export failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func parseOptions(args []string, defaultSeasons []int) (options, error) {
	fs := flag.NewFlagSet("dataset", flag.ContinueOnError)
	seasonsRaw := fs.String("seasons", joinSeasons(defaultSeasons), "comma separated seasons to export")
	output := fs.String("out", "-", "output CSV path, - for stdout")
	minHistory := fs.Int("min-history", 0, "skip fixtures where either team has fewer prior completed games")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	seasons, err := parseSeasons(*seasonsRaw)
	if err != nil {
		return options{}, err
	}
	if *minHistory < 0 {
		return options{}, fmt.Errorf("min-history must be >= 0")
	}
	return options{seasons: seasons, output: *output, minHistoryGames: *minHistory}, nil
}

func run(cfg config.Config, opts options, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The export reads the source of truth directly.
	cfg.CacheEnabled = false
	cfg.RedisEnabled = false
	history, err := app.NewHistory(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build history: %w", err)
	}
	defer func() { _ = history.Close() }()

	svc := usecase.NewDatasetService(history.Repository, usecase.DatasetConfig{
		MinHistoryGames: opts.minHistoryGames,
		Logger:          logger,
	})
	result, err := svc.Build(ctx, opts.seasons)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	if err := writeDatasetCSV(out, result.Rows); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.InfoContext(ctx, "dataset exported",
		"seasons", opts.seasons,
		"rows", len(result.Rows),
		"skipped", result.Skipped,
		"failed", result.Failed,
		"output", opts.output,
	)
	return nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return f, f.Close, nil
}

func parseSeasons(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		season, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", part, err)
		}
		out = append(out, season)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one season is required")
	}
	return out, nil
}

func joinSeasons(seasons []int) string {
	parts := make([]string, 0, len(seasons))
	for _, season := range seasons {
		parts = append(parts, strconv.Itoa(season))
	}
	return strings.Join(parts, ",")
}
