package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "match-predictor-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitUptrace_EnabledWithoutDSNIsNoop(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, ServiceName: "match-predictor-api"}

	shutdown, err := InitUptrace(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, stop())
}

func TestServiceTags(t *testing.T) {
	cfg := config.Config{
		AppEnv:         config.EnvStage,
		ServiceName:    "match-predictor-api",
		ServiceVersion: "1.4.0",
		ModelBackend:   config.ModelBackendS3,
		HistorySource:  config.HistorySourcePostgres,
	}
	tags := serviceTags(cfg)

	assert.Equal(t, "stage", tags["env"])
	assert.Equal(t, "s3", tags["model_backend"])
	assert.Equal(t, "postgres", tags["history_source"])

	attrs := resourceAttributes(cfg)
	require.Len(t, attrs, 2)
	assert.Equal(t, "predictor.model_backend", string(attrs[0].Key))
	assert.Equal(t, "s3", attrs[0].Value.AsString())
}

func TestUptraceDisabledReason(t *testing.T) {
	assert.Equal(t, "UPTRACE_ENABLED=false", uptraceDisabledReason(config.Config{}))
	assert.Equal(t, "UPTRACE_DSN empty", uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: " "}))
	assert.Empty(t, uptraceDisabledReason(config.Config{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev/1"}))
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{}, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, srv)
	require.NoError(t, StopPprofServer(context.Background(), srv, nil))
}
