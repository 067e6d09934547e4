package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestLogger_WritesKeyValuesAndTraceIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWriter(zapcore.AddSync(&buf), LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.ErrorContext(ctx, "merge failed", "fixture_id", "fx-1", "error", errors.New("boom"))
	logger.Debug("dropped below level")

	out := buf.String()
	for _, want := range []string{`"fixture_id":"fx-1"`, `"error":"boom"`, `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
	if strings.Contains(out, "dropped below level") {
		t.Fatalf("debug line must be filtered at info level")
	}
}

func TestLogger_OddArgsDoNotPanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWriter(zapcore.AddSync(&buf), LevelInfo)
	logger.Info("odd", "dangling")
	logger.Info("non string key", 42, "value")

	out := buf.String()
	if !strings.Contains(out, `"dangling":null`) || !strings.Contains(out, `"arg":"value"`) {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Contains(out, "trace_id") {
		t.Fatalf("expected no trace fields without a span: %s", out)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewWriter(zapcore.AddSync(&buf), LevelInfo))
	t.Cleanup(func() { SetDefault(nil) })

	var logger *Logger
	logger.Info("routed to default", "fixture_id", "fx-1")
	if !strings.Contains(buf.String(), `"msg":"routed to default"`) {
		t.Fatalf("expected nil receiver to write through default: %s", buf.String())
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync on nil logger: %v", err)
	}
}
