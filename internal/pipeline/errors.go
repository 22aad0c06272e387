package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/jobscout/internal/types"
)

// ErrExhausted matches any ExhaustedError through errors.Is.
var ErrExhausted = errors.New("extraction exhausted all strategies")

// ExhaustedError is the terminal extraction failure. It always carries a
// diagnosis explaining why and what the user can do by hand.
type ExhaustedError struct {
	URL       string
	Attempts  []Attempt
	Diagnosis *types.ExtractionDiagnosis
	// FetchErr is the initial fetch failure, if any.
	FetchErr error
}

func (e *ExhaustedError) Error() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Strategy
	}
	msg := fmt.Sprintf("%v for %s (tried %s)", ErrExhausted, e.URL, strings.Join(names, ", "))
	if e.Diagnosis != nil && e.Diagnosis.RecommendedAction != "" {
		msg += ": " + e.Diagnosis.RecommendedAction
	}
	return msg
}

// Screenshot returns the first diagnostic page capture taken during
// escalation, or nil.
func (e *ExhaustedError) Screenshot() []byte {
	for _, a := range e.Attempts {
		if len(a.Screenshot) > 0 {
			return a.Screenshot
		}
	}
	return nil
}

// Is reports whether target is ErrExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *ExhaustedError) Unwrap() error {
	return e.FetchErr
}
