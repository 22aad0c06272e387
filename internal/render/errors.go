package render

import "fmt"

// Kind classifies a render failure.
type Kind string

const (
	// KindLaunch means the browser could not be started (missing binary, sandbox, etc.)
	KindLaunch Kind = "launch"
	// KindNavigation means the browser started but the page failed to load
	KindNavigation Kind = "navigation"
	// KindTimeout means navigation exceeded its deadline
	KindTimeout Kind = "timeout"
)

// Error represents a headless rendering failure. Render errors are not retried.
type Error struct {
	URL     string
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error for %s: %s: %s: %v", e.URL, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error for %s: %s: %s", e.URL, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Environment reports whether the failure lies with the local environment
// rather than the target site.
func (e *Error) Environment() bool {
	return e.Kind == KindLaunch
}

// CauseClass is "environment" or "target site".
func (e *Error) CauseClass() string {
	if e.Environment() {
		return "environment"
	}
	return "target site"
}
