package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

const errorReporterInstrumentation = "darts-league/internal/observability"

// ErrorReporter logs unexpected command failures, marks the active span as
// failed and mirrors the record to the global OpenTelemetry log provider.
type ErrorReporter struct {
	logger *logging.Logger
	otel   otellog.Logger
}

func NewErrorReporter(logger *logging.Logger, serviceVersion string) *ErrorReporter {
	if logger == nil {
		logger = logging.Default()
	}
	return &ErrorReporter{
		logger: logger,
		otel: otelglobal.Logger(
			errorReporterInstrumentation,
			otellog.WithInstrumentationVersion(serviceVersion),
		),
	}
}

func (r *ErrorReporter) Report(ctx context.Context, err error, args ...any) {
	if err == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fields := append([]any{"error", err.Error(), "root_cause", crerr.UnwrapAll(err).Error()}, args...)
	r.logger.ErrorContext(ctx, "command failed", fields...)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	r.emit(ctx, fields)
}

func (r *ErrorReporter) emit(ctx context.Context, fields []any) {
	if !r.otel.Enabled(ctx, otellog.EnabledParameters{Severity: otellog.SeverityError, EventName: "command failed"}) {
		return
	}

	now := time.Now().UTC()
	record := otellog.Record{}
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetSeverity(otellog.SeverityError)
	record.SetSeverityText("ERROR")
	record.SetEventName("command failed")
	record.SetBody(otellog.StringValue("command failed"))
	record.AddAttributes(logAttributes(fields)...)

	r.otel.Emit(ctx, record)
}

func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprintf("arg_%d", i/2)
		if k, ok := args[i].(string); ok && strings.TrimSpace(k) != "" {
			key = k
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			continue
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1])})
	}
	return attrs
}

func logValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case float64:
		return otellog.Float64Value(v)
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
