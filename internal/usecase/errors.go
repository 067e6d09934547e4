package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// isExpected reports whether err is one of the sentinels a caller is meant
// to handle. Anything else is unexpected and goes to the ErrorReporter.
func isExpected(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidInput,
		ErrNotFound,
		ErrUnauthorized,
		ErrForbidden,
		ErrConflict,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
