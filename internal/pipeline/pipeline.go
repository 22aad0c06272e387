// Package pipeline turns a job posting URL into clean text by escalating
// through increasingly expensive extraction strategies.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/cache"
	"github.com/jonathan/jobscout/internal/diagnose"
	"github.com/jonathan/jobscout/internal/extract"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/ingestion"
)

// Fetcher is the HTTP side of the pipeline.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts *fetch.Options) (*fetch.Result, error)
}

// Content is a successful extraction.
type Content struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Strategy  string    `json:"strategy"`
	Platform  string    `json:"platform,omitempty"`
	FromCache bool      `json:"from_cache"`
	Attempts  []Attempt `json:"attempts,omitempty"`
}

// AttemptCallback is called after every strategy attempt.
type AttemptCallback func(url string, attempt Attempt)

// Pipeline runs the escalation chain for one URL at a time. It is safe for
// concurrent use as long as its collaborators are.
type Pipeline struct {
	cache      cache.Store
	fetcher    Fetcher
	strategies []Strategy
	policy     Policy
	logger     *zap.Logger

	// OnAttempt, when set, observes every attempt as it completes.
	OnAttempt AttemptCallback
}

// New creates a Pipeline. store may be nil to disable caching.
func New(store cache.Store, fetcher Fetcher, strategies []Strategy, policy Policy, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cache:      store,
		fetcher:    fetcher,
		strategies: strategies,
		policy:     policy.withDefaults(),
		logger:     logger,
	}
}

// DefaultStrategies builds the standard static, spa, render, site chain.
// A nil renderer or scraper drops that step.
func DefaultStrategies(policy Policy, renderer PageRenderer, scraper SiteScraper) []Strategy {
	policy = policy.withDefaults()
	strategies := []Strategy{
		StaticStrategy{MinVisibleChars: policy.MinVisibleChars},
		SPAStrategy{MinVisibleChars: policy.MinVisibleChars},
	}
	if renderer != nil {
		strategies = append(strategies, RenderStrategy{Renderer: renderer, MinVisibleChars: policy.MinVisibleChars})
	}
	if scraper != nil {
		strategies = append(strategies, SiteStrategy{Scraper: scraper, MinChars: policy.MinSiteChars})
	}
	return strategies
}

// Policy returns the thresholds in effect.
func (p *Pipeline) Policy() Policy {
	return p.policy
}

// Strategies returns the strategy names in escalation order.
func (p *Pipeline) Strategies() []string {
	names := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract returns the text of the posting at url. A cached result is returned
// without fetching. Otherwise strategies run in order until one is
// sufficient; when none is, the result is an *ExhaustedError with a diagnosis.
func (p *Pipeline) Extract(ctx context.Context, url string) (*Content, error) {
	log := p.logger.With(zap.String("url", url))
	platform := string(extract.DetectPlatform(url))

	if p.cache != nil {
		if text, ok := p.cache.Get(ctx, url); ok {
			log.Debug("cache hit")
			return &Content{URL: url, Text: text, Strategy: StrategyCache, Platform: platform, FromCache: true}, nil
		}
	}

	in := &Input{URL: url}
	bestHTML := ""
	res, fetchErr := p.fetcher.Fetch(ctx, url, nil)
	switch {
	case fetchErr == nil:
		in.HTML = res.HTML
		bestHTML = res.HTML
	case fetch.IsKind(fetchErr, fetch.KindInvalidURL):
		return nil, fetchErr
	default:
		// Error pages are kept for diagnosis only
		if res != nil {
			bestHTML = res.HTML
		}
		log.Warn("fetch failed, escalating without HTML", zap.Error(fetchErr))
	}

	attempts := make([]Attempt, 0, len(p.strategies))
	for _, s := range p.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a := p.run(ctx, s, in)
		if len(a.HTML) > len(bestHTML) {
			bestHTML = a.HTML
		}

		var text string
		if a.Sufficient {
			text = ingestion.CleanText(a.Text)
			if text == "" {
				a.Sufficient = false
				a.Detail = "cleaned text is empty"
			}
		}
		a.Text, a.HTML = "", ""
		attempts = append(attempts, a)
		if p.OnAttempt != nil {
			p.OnAttempt(url, a)
		}

		log.Debug("strategy attempted",
			zap.String("strategy", a.Strategy),
			zap.Int("raw_bytes", a.RawBytes),
			zap.Int("visible_chars", a.VisibleTextLength),
			zap.Bool("sufficient", a.Sufficient),
			zap.Duration("duration", a.Duration),
			zap.NamedError("attempt_error", a.Err))

		if a.Sufficient {
			if p.cache != nil {
				p.cache.Set(ctx, url, text)
			}
			return &Content{URL: url, Text: text, Strategy: a.Strategy, Platform: platform, Attempts: attempts}, nil
		}
	}

	diagnosis := diagnose.Analyze(bestHTML, url)
	log.Warn("all strategies insufficient",
		zap.String("cause", string(diagnosis.Cause)),
		zap.Int("html_size", diagnosis.HTMLSize))
	return nil, &ExhaustedError{URL: url, Attempts: attempts, Diagnosis: diagnosis, FetchErr: fetchErr}
}

// run executes one strategy. Strategy errors and panics are recorded on the
// attempt and never stop escalation.
func (p *Pipeline) run(ctx context.Context, s Strategy, in *Input) (a Attempt) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a = Attempt{Strategy: s.Name(), Err: fmt.Errorf("strategy panicked: %v", r)}
			a.Error = a.Err.Error()
		}
		a.Duration = time.Since(start)
	}()

	got, err := s.Attempt(ctx, in)
	if got == nil {
		got = &Attempt{Strategy: s.Name()}
	}
	if got.Strategy == "" {
		got.Strategy = s.Name()
	}
	if err != nil {
		got.Sufficient = false
		got.Err = err
		got.Error = err.Error()
	}
	return *got
}

// IsExhausted reports whether err is a terminal extraction failure and
// returns its diagnosis.
func IsExhausted(err error) (*ExhaustedError, bool) {
	var ex *ExhaustedError
	if errors.As(err, &ex) {
		return ex, true
	}
	return nil, false
}
