package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRetriesExhausted wraps the last transient failure once the attempt
	// budget is spent.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrMalformedBody is returned when a successful response is not JSON.
	ErrMalformedBody = errors.New("response body is not valid JSON")
)

// transientStatuses are retried; every other status >= 400 is final.
var transientStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// StatusError is an HTTP response with status >= 400.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Body is the start of the response body, for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return transientStatuses[e.StatusCode]
}

// networkError is a failure before a complete response was read.
type networkError struct {
	err error
}

func (e *networkError) Error() string { return e.err.Error() }
func (e *networkError) Unwrap() error { return e.err }

// isTransient reports whether err may succeed on a later attempt.
func isTransient(err error) bool {
	var ne *networkError
	if errors.As(err, &ne) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Transient()
}
