package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrNoData is returned when the upstream is unavailable and no cached
// value of any age exists for the key.
var ErrNoData = errors.New("upstream unavailable and no cached data")

// ErrBadResponse wraps parse and validation failures of an upstream body.
// It is fatal: a response we cannot trust is never retried or cached.
var ErrBadResponse = errors.New("invalid upstream response")

// StatusError captures an unexpected upstream status code and response body.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, string(e.Body))
}

// Retryable reports whether an upstream failure is transient: network
// errors, timeouts, 429 and 5xx qualify. Every other HTTP status and any
// parse failure is fatal.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBadResponse) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// Transport failures (connection refused, DNS, timeouts) surface as
	// *url.Error from http.Client.Do, which implements net.Error.
	var ne net.Error
	return errors.As(err, &ne)
}

// BadResponse builds a fatal validation error for an unparseable or
// structurally invalid upstream body.
func BadResponse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadResponse, fmt.Sprintf(format, args...))
}
