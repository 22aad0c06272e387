package sites

import (
	"errors"
	"fmt"
)

// ErrUnknownSite is returned when no recipe matches a URL.
var ErrUnknownSite = errors.New("no site recipe for URL")

// ErrNoVisibleText is returned when a page has no visible text at all.
var ErrNoVisibleText = errors.New("page has no visible text")

// ScrapeError represents a failure scraping a known site.
type ScrapeError struct {
	URL    string
	Recipe string
	Cause  error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s (%s): %v", e.URL, e.Recipe, e.Cause)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}
