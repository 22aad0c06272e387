package pipeline

import (
	"context"
	"time"
	"unicode/utf8"
)

// Input is what every strategy receives: the URL and whatever HTML the
// initial fetch produced. HTML is empty when the fetch failed.
type Input struct {
	URL  string
	HTML string
}

// Attempt records one strategy run. It exists only for the length of one
// Extract call and drives the escalation decision.
type Attempt struct {
	Strategy          string        `json:"strategy"`
	RawBytes          int           `json:"raw_bytes"`
	VisibleTextLength int           `json:"visible_text_length"`
	Sufficient        bool          `json:"sufficient"`
	Detail            string        `json:"detail,omitempty"`
	Error             string        `json:"error,omitempty"`
	Duration          time.Duration `json:"duration"`

	// Text is the extracted text, kept only while escalation is running.
	Text string `json:"-"`
	// HTML is the document the strategy worked on when it differs from Input.HTML.
	HTML string `json:"-"`
	// Screenshot is a diagnostic capture of a rendered page that fell short.
	Screenshot []byte `json:"-"`
	// Err is the failure returned by the strategy, if any.
	Err error `json:"-"`
}

// Strategy is one step of the escalation chain.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, in *Input) (*Attempt, error)
}

// Policy holds the empirical thresholds that drive escalation.
type Policy struct {
	// MinVisibleChars is the visible text below which an attempt is insufficient.
	MinVisibleChars int
	// AdvancedParseChars is the text length above which structured
	// extraction switches to the advanced model tier.
	AdvancedParseChars int
	// MinSiteChars gates the site-specific scraper, whose output is
	// already filtered by its recipe.
	MinSiteChars int
}

// Default thresholds.
const (
	DefaultMinVisibleChars    = 500
	DefaultAdvancedParseChars = 15000
	DefaultMinSiteChars       = 300
)

// DefaultPolicy returns the default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinVisibleChars:    DefaultMinVisibleChars,
		AdvancedParseChars: DefaultAdvancedParseChars,
		MinSiteChars:       DefaultMinSiteChars,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MinVisibleChars <= 0 {
		p.MinVisibleChars = d.MinVisibleChars
	}
	if p.AdvancedParseChars <= 0 {
		p.AdvancedParseChars = d.AdvancedParseChars
	}
	if p.MinSiteChars <= 0 {
		p.MinSiteChars = d.MinSiteChars
	}
	return p
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
