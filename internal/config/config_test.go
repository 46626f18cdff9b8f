package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PredictionDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HistorySource != HistorySourcePostgres {
		t.Fatalf("unexpected history source: %q", cfg.HistorySource)
	}
	if len(cfg.HistorySeasons) != 3 || cfg.HistorySeasons[0] != 2022 || cfg.HistorySeasons[2] != 2024 {
		t.Fatalf("unexpected history seasons: %+v", cfg.HistorySeasons)
	}
	if !cfg.HistoryIncludeTargetSeason {
		t.Fatalf("expected target season to be included by default")
	}
	if cfg.HistoryFetchTimeout != 10*time.Second {
		t.Fatalf("unexpected history fetch timeout: %s", cfg.HistoryFetchTimeout)
	}
	if cfg.ModelBackend != ModelBackendFile || cfg.ModelDir != "models" {
		t.Fatalf("unexpected model backend %q dir %q", cfg.ModelBackend, cfg.ModelDir)
	}
	if cfg.ModelFilePattern != "%s_model.json" {
		t.Fatalf("unexpected model file pattern: %q", cfg.ModelFilePattern)
	}
	if cfg.ModelLoadTimeout != 30*time.Second {
		t.Fatalf("unexpected model load timeout: %s", cfg.ModelLoadTimeout)
	}
	if !cfg.ModelPreload {
		t.Fatalf("expected model preload by default")
	}
	if cfg.BatchMaxItems != 100 || cfg.BatchWorkers != 8 {
		t.Fatalf("unexpected batch settings: max=%d workers=%d", cfg.BatchMaxItems, cfg.BatchWorkers)
	}
	if cfg.RedisEnabled {
		t.Fatalf("expected redis disabled by default")
	}
}

func TestLoad_HistorySeasonsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("comma separated", func(t *testing.T) {
		t.Setenv("HISTORY_SEASONS", " 2021, 2023 ,")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.HistorySeasons) != 2 || cfg.HistorySeasons[0] != 2021 || cfg.HistorySeasons[1] != 2023 {
			t.Fatalf("unexpected seasons: %+v", cfg.HistorySeasons)
		}
	})

	t.Run("invalid season", func(t *testing.T) {
		t.Setenv("HISTORY_SEASONS", "2023,abc")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid HISTORY_SEASONS")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("HISTORY_SEASONS", "23")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for out of range season")
		}
	})
}

func TestLoad_EnumValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("history source", func(t *testing.T) {
		t.Setenv("HISTORY_SOURCE", "mongo")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid HISTORY_SOURCE")
		}
	})

	t.Run("model backend", func(t *testing.T) {
		t.Setenv("MODEL_BACKEND", "gcs")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid MODEL_BACKEND")
		}
	})

	t.Run("file pattern placeholder", func(t *testing.T) {
		t.Setenv("MODEL_FILE_PATTERN", "model.json")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for MODEL_FILE_PATTERN without placeholder")
		}
	})
}

func TestLoad_S3Backend(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("MODEL_BACKEND", ModelBackendS3)

	t.Run("requires bucket", func(t *testing.T) {
		t.Setenv("MODEL_S3_BUCKET", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when MODEL_BACKEND=s3 without MODEL_S3_BUCKET")
		}
	})

	t.Run("parses settings", func(t *testing.T) {
		t.Setenv("MODEL_S3_BUCKET", "models")
		t.Setenv("MODEL_S3_ENDPOINT", "minio:9000")
		t.Setenv("MODEL_S3_USE_SSL", "false")
		t.Setenv("MODEL_S3_FORCE_PATH_STYLE", "true")
		t.Setenv("MODEL_S3_CIRCUIT_FAILURE_COUNT", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.ModelS3.Bucket != "models" || cfg.ModelS3.Endpoint != "minio:9000" {
			t.Fatalf("unexpected s3 config: %+v", cfg.ModelS3)
		}
		if cfg.ModelS3.UseSSL || !cfg.ModelS3.ForcePathStyle {
			t.Fatalf("unexpected s3 flags: %+v", cfg.ModelS3)
		}
		if cfg.ModelS3.CircuitFailureCount != 3 || cfg.ModelS3.CircuitOpenTimeout != 15*time.Second {
			t.Fatalf("unexpected s3 circuit config: %+v", cfg.ModelS3)
		}
	})

	t.Run("invalid circuit count", func(t *testing.T) {
		t.Setenv("MODEL_S3_BUCKET", "models")
		t.Setenv("MODEL_S3_CIRCUIT_FAILURE_COUNT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for MODEL_S3_CIRCUIT_FAILURE_COUNT=0")
		}
	})
}

func TestLoad_BatchLimits(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("max items", func(t *testing.T) {
		t.Setenv("BATCH_MAX_ITEMS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for BATCH_MAX_ITEMS=0")
		}
	})

	t.Run("workers", func(t *testing.T) {
		t.Setenv("BATCH_WORKERS", "x")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid BATCH_WORKERS")
		}
	})
}

func TestLoad_RedisConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("REDIS_ENABLED", "true")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RedisAddr != "localhost:6379" || cfg.RedisTTL != 10*time.Minute {
			t.Fatalf("unexpected redis config addr=%q ttl=%s", cfg.RedisAddr, cfg.RedisTTL)
		}
	})

	t.Run("negative db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for REDIS_DB=-1")
		}
	})
}

func TestLoad_MemoryHistoryInProdRequiresSeed(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("HISTORY_SOURCE", HistorySourceMemory)
	t.Setenv("HISTORY_SEED_PATH", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for memory history in prod without seed path")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "match-predictor-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "match-predictor-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("MP_TEST_DOTENV_ADMIN=from-file\nADMIN_TOKEN=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_ENV_FILE", path)
	t.Setenv("ADMIN_TOKEN", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("MP_TEST_DOTENV_ADMIN") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AdminToken != "from-env" {
		t.Fatalf("expected process env to win over .env, got %q", cfg.AdminToken)
	}
	if os.Getenv("MP_TEST_DOTENV_ADMIN") != "from-file" {
		t.Fatalf("expected .env values to be exported")
	}
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	if _, err := Load(); err != nil {
		t.Fatalf("load config: %v", err)
	}
}
