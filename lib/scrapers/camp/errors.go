package camp

import "github.com/pkg/errors"

var (
	ErrNavigation        = errors.New("failed to reach camp")
	ErrElementNotFound   = errors.New("expected element not found on camp page")
	ErrTimeout           = errors.New("camp did not respond in time")
	ErrSessionClosed     = errors.New("camp session already closed")
	ErrEmptyQuery        = errors.New("refusing to submit an empty query")
	ErrMalformedResponse = errors.New("malformed camp response")
)

func malformed(format string, args ...any) error {
	return errors.Wrapf(ErrMalformedResponse, format, args...)
}
