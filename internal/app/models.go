package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/artifactstore"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

func newArtifactStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (artifact.Store, error) {
	switch cfg.ModelBackend {
	case config.ModelBackendS3:
		store, err := artifactstore.NewS3Store(ctx, artifactstore.S3Config{
			Endpoint:       cfg.ModelS3.Endpoint,
			Region:         cfg.ModelS3.Region,
			Bucket:         cfg.ModelS3.Bucket,
			Prefix:         cfg.ModelS3.Prefix,
			AccessKey:      cfg.ModelS3.AccessKey,
			SecretKey:      cfg.ModelS3.SecretKey,
			UseSSL:         cfg.ModelS3.UseSSL,
			ForcePathStyle: cfg.ModelS3.ForcePathStyle,
			FilePattern:    cfg.ModelFilePattern,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ModelS3.CircuitEnabled,
				FailureThreshold: cfg.ModelS3.CircuitFailureCount,
				OpenTimeout:      cfg.ModelS3.CircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ModelS3.CircuitHalfOpenMaxReq,
			},
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build s3 model store: %w", err)
		}
		logger.InfoContext(ctx, "model store ready", "backend", cfg.ModelBackend, "bucket", cfg.ModelS3.Bucket, "prefix", cfg.ModelS3.Prefix)
		return store, nil
	default:
		logger.InfoContext(ctx, "model store ready", "backend", cfg.ModelBackend, "dir", cfg.ModelDir)
		return artifactstore.NewFileStore(cfg.ModelDir, cfg.ModelFilePattern), nil
	}
}
