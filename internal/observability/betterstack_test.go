package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/darts-league/internal/config"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
)

type capturedBatches struct {
	mu      sync.Mutex
	auth    string
	entries []map[string]any
	calls   int
}

func newBetterStackServer(t *testing.T, captured *capturedBatches) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []map[string]any
		if err := sonic.Unmarshal(body, &batch); err != nil {
			t.Errorf("expected JSON array body, got %s: %v", body, err)
		}

		captured.mu.Lock()
		captured.calls++
		captured.auth = r.Header.Get("Authorization")
		captured.entries = append(captured.entries, batch...)
		captured.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
}

func TestInitBetterStackLogger_ShipsErrorLogsInBatches(t *testing.T) {
	t.Parallel()

	captured := &capturedBatches{}
	server := newBetterStackServer(t, captured)
	defer server.Close()

	cfg := config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: server.URL,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		LogLevel:            logging.LevelError,
		ServiceName:         "darts-league-api",
		AppEnv:              config.EnvDev,
	}

	logger, shutdown, err := InitBetterStackLogger(cfg)
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "merge failed", "fixture_id", "fx-1")
	logger.ErrorContext(context.Background(), "merge failed", "fixture_id", "fx-2")
	logger.InfoContext(context.Background(), "info log should not be shipped")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	captured.mu.Lock()
	defer captured.mu.Unlock()
	if len(captured.entries) != 2 {
		t.Fatalf("expected 2 shipped entries, got %d", len(captured.entries))
	}
	if captured.auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", captured.auth)
	}
	if captured.entries[0]["fixture_id"] != "fx-1" {
		t.Fatalf("unexpected first entry: %v", captured.entries[0])
	}
}

func TestInitBetterStackLogger_Disabled(t *testing.T) {
	t.Parallel()

	logger, shutdown, err := InitBetterStackLogger(config.Config{LogLevel: logging.LevelError})
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected stdout logger when Better Stack is disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	t.Parallel()

	if got := normalizeBetterStackEndpoint(" in.logs.betterstack.com "); got != "https://in.logs.betterstack.com" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
	if got := normalizeBetterStackEndpoint("http://localhost:9000"); got != "http://localhost:9000" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
}
