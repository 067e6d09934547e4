package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/darts-league/internal/config"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "darts-league-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EmptyDSNStaysDisabled(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: "  "}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestUptraceOptions_SkipsEmptyVersion(t *testing.T) {
	cfg := config.Config{ServiceName: "darts-league-api", AppEnv: config.EnvStage, StorageDriver: config.StoragePostgres}

	withoutVersion := uptraceOptions(cfg, "https://token@api.uptrace.dev/1")
	cfg.ServiceVersion = "v1.2.0"
	withVersion := uptraceOptions(cfg, "https://token@api.uptrace.dev/1")

	if len(withVersion) != len(withoutVersion)+1 {
		t.Fatalf("expected version option only when set: %d vs %d", len(withVersion), len(withoutVersion))
	}
}
