package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/darts-league/internal/config"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

func noopShutdown(context.Context) error { return nil }

// InitUptrace installs the global trace, metric and log providers. The
// returned func flushes them on shutdown.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dsn := strings.TrimSpace(cfg.UptraceDSN)
	switch {
	case !cfg.UptraceEnabled:
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return noopShutdown, nil
	case dsn == "":
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return noopShutdown, nil
	}

	uptrace.ConfigureOpentelemetry(uptraceOptions(cfg, dsn)...)
	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return uptrace.Shutdown, nil
}

func uptraceOptions(cfg config.Config, dsn string) []uptrace.Option {
	opts := []uptrace.Option{
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
		uptrace.WithResourceAttributes(
			attribute.String("darts.storage_driver", cfg.StorageDriver),
			attribute.Int("darts.merge_workers", cfg.MergeWorkerCount),
		),
	}
	if cfg.ServiceVersion != "" {
		opts = append(opts, uptrace.WithServiceVersion(cfg.ServiceVersion))
	}
	return opts
}
