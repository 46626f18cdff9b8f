package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/interfaces/httpapi"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

// App is the assembled API process: the HTTP server plus everything that must
// be released when it stops.
type App struct {
	Server      *http.Server
	Predictions *usecase.PredictionService

	cfg     config.Config
	logger  *logging.Logger
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	history, err := NewHistory(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := newArtifactStore(ctx, cfg, logger)
	if err != nil {
		_ = history.Close()
		return nil, err
	}

	registry := usecase.NewModelRegistry(store, usecase.ModelRegistryConfig{
		LoadTimeout: cfg.ModelLoadTimeout,
		Logger:      logger,
	})
	predictions := usecase.NewPredictionService(history.Repository, registry, usecase.PredictionConfig{
		HistorySeasons:      cfg.HistorySeasons,
		IncludeTargetSeason: cfg.HistoryIncludeTargetSeason,
		HistoryFetchTimeout: cfg.HistoryFetchTimeout,
		BatchMaxItems:       cfg.BatchMaxItems,
		BatchWorkers:        cfg.BatchWorkers,
		OnReload:            history.Invalidate,
		Logger:              logger,
	})

	handler := httpapi.NewHandler(predictions, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
	})

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Predictions: predictions,
		cfg:         cfg,
		logger:      logger,
		closers:     []func() error{history.Close},
	}, nil
}

// WarmUp loads every market model when MODEL_PRELOAD is set. Markets that
// fail stay unloaded and are retried on first use.
func (a *App) WarmUp(ctx context.Context) {
	if !a.cfg.ModelPreload {
		return
	}
	results := a.Predictions.WarmUp(ctx)
	loaded := 0
	for _, item := range results {
		if item.Loadable {
			loaded++
		}
	}
	a.logger.InfoContext(ctx, "model preload finished", "loaded", loaded, "markets", len(results))
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
