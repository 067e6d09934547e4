package usecase

import "context"

// ErrorReporter receives unexpected failures from state-changing commands.
// Report must not block the caller.
type ErrorReporter interface {
	Report(ctx context.Context, err error, args ...any)
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, error, ...any) {}

func reporterOrNop(r ErrorReporter) ErrorReporter {
	if r == nil {
		return nopReporter{}
	}
	return r
}

// reportUnexpected forwards err to r unless it is an expected sentinel.
func reportUnexpected(ctx context.Context, r ErrorReporter, op string, err error, args ...any) {
	if err == nil || isExpected(err) {
		return
	}
	r.Report(ctx, err, append([]any{"operation", op}, args...)...)
}
