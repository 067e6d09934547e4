package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolateEnvFile(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_AppEnvValidation(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageDriver)
	}
	if cfg.MergeWorkerCount != 4 {
		t.Fatalf("unexpected MergeWorkerCount: %d", cfg.MergeWorkerCount)
	}
	if !cfg.AnubisCircuit.Enabled || cfg.AnubisCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected anubis circuit defaults: %+v", cfg.AnubisCircuit)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected pyroscope app name to default to service name")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_DRIVER")
	}

	t.Setenv("STORAGE_DRIVER", " Postgres ")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
}

func TestLoad_MergeWorkerCountValidation(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)

	t.Setenv("MERGE_WORKER_COUNT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for MERGE_WORKER_COUNT=0")
	}

	t.Setenv("MERGE_WORKER_COUNT", "many")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error for MERGE_WORKER_COUNT")
	}

	t.Setenv("MERGE_WORKER_COUNT", "12")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MergeWorkerCount != 12 {
		t.Fatalf("unexpected MergeWorkerCount: %d", cfg.MergeWorkerCount)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN from OTLP headers: %q", cfg.UptraceDSN)
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}

	t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
	t.Setenv("BETTERSTACK_TOKEN", "token-123")
	t.Setenv("BETTERSTACK_TIMEOUT", "4s")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BetterStackToken != "token-123" {
		t.Fatalf("unexpected BetterStackToken")
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel.String() != "warn" {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel.String())
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://league.example , ,https://admin.example ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.example" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_DurationsMustBePositive(t *testing.T) {
	isolateEnvFile(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for CACHE_TTL=0s")
	}
}

func TestLoad_ReadsEnvFileWithoutOverridingEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "MERGE_WORKER_COUNT=7\nAPP_SERVICE_NAME=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("APP_ENV_FILE", path)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "from-env")
	t.Setenv("MERGE_WORKER_COUNT", "")
	os.Unsetenv("MERGE_WORKER_COUNT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MergeWorkerCount != 7 {
		t.Fatalf("expected worker count from env file, got %d", cfg.MergeWorkerCount)
	}
	if cfg.ServiceName != "from-env" {
		t.Fatalf("expected environment to win over env file, got %q", cfg.ServiceName)
	}
}
