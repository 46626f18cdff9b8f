package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace installs the global OpenTelemetry providers. With logs enabled
// every log record is also mirrored into the OTel log pipeline. The returned
// func flushes and detaches both.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logging.SetMirror(nil)

	if reason := uptraceDisabledReason(cfg); reason != "" {
		logger.Info("uptrace disabled", "reason", reason)
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttributes(cfg)...),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion))
	}

	logger.Info("uptrace enabled", "environment", cfg.AppEnv, "logs_enabled", cfg.UptraceLogsEnabled)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}

func uptraceDisabledReason(cfg config.Config) string {
	switch {
	case !cfg.UptraceEnabled:
		return "UPTRACE_ENABLED=false"
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		return "UPTRACE_DSN empty"
	default:
		return ""
	}
}

// serviceTags labels telemetry with how this replica sources models and
// history. Traces and profiles share them.
func serviceTags(cfg config.Config) map[string]string {
	return map[string]string{
		"env":            cfg.AppEnv,
		"service":        cfg.ServiceName,
		"version":        cfg.ServiceVersion,
		"model_backend":  cfg.ModelBackend,
		"history_source": cfg.HistorySource,
	}
}

func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	tags := serviceTags(cfg)
	attrs := make([]attribute.KeyValue, 0, 2)
	for _, key := range []string{"model_backend", "history_source"} {
		if tags[key] != "" {
			attrs = append(attrs, attribute.String("predictor."+key, tags[key]))
		}
	}
	return attrs
}
