package fetch

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a fetch failure.
type Kind string

const (
	// KindInvalidURL means the URL could not be parsed or has no scheme/host
	KindInvalidURL Kind = "invalid_url"
	// KindTimeout means an attempt hit its hard deadline
	KindTimeout Kind = "timeout"
	// KindHTTP means the server answered with a non-success status
	KindHTTP Kind = "http_error"
	// KindNetwork covers DNS, connection, TLS and body read failures
	KindNetwork Kind = "network_error"
)

var errTooManyRedirects = errors.New("too many redirects")

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Kind       Kind
	StatusCode int
	Message    string
	RetryAfter time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %s: %v", e.URL, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s: %s", e.URL, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether another attempt could succeed.
// Timeouts, network errors, 429 and 5xx are transient; other 4xx are not.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout:
		return true
	case KindNetwork:
		return !errors.Is(e.Cause, errTooManyRedirects)
	case KindHTTP:
		return e.StatusCode == 429 || e.StatusCode >= 500
	default:
		return false
	}
}

// IsKind reports whether err is a fetch Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
