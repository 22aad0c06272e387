// Package fetch provides resilient URL fetching: browser-like headers, a hard
// per-attempt timeout, a redirect limit and bounded retries with backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the per-attempt request timeout.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxRedirects caps redirect chains.
	DefaultMaxRedirects = 5
	// DefaultMaxRetries is the number of additional attempts after the first failure.
	DefaultMaxRetries = 2
	// DefaultBaseDelay is the delay before the first retry, doubled on each retry.
	DefaultBaseDelay = 500 * time.Millisecond
	// DefaultMaxBodyBytes bounds how much of a response body is read.
	DefaultMaxBodyBytes = 10 << 20
)

// NoRetries disables retries when set as Options.MaxRetries. A zero
// MaxRetries keeps the default.
const NoRetries = -1

// DefaultUserAgent mimics a current desktop Chrome to get past trivial bot filters.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// navigationHeaders are sent on every request unless overridden by Options.Headers.
var navigationHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
}

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	FinalURL    string
	HTML        string
	ContentType string
	StatusCode  int
	Attempts    int
}

// Options configures the fetch behavior.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxRedirects int
	MaxRetries   int
	BaseDelay    time.Duration
	MaxBodyBytes int64
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxRedirects: DefaultMaxRedirects,
		MaxRetries:   DefaultMaxRetries,
		BaseDelay:    DefaultBaseDelay,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// merge fills zero values of o from base.
func (o *Options) merge(base *Options) *Options {
	out := *base
	if o == nil {
		return &out
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.UserAgent != "" {
		out.UserAgent = o.UserAgent
	}
	if len(o.Headers) > 0 {
		out.Headers = make(map[string]string, len(base.Headers)+len(o.Headers))
		for k, v := range base.Headers {
			out.Headers[k] = v
		}
		for k, v := range o.Headers {
			out.Headers[k] = v
		}
	}
	if o.MaxRedirects > 0 {
		out.MaxRedirects = o.MaxRedirects
	}
	switch {
	case o.MaxRetries > 0:
		out.MaxRetries = o.MaxRetries
	case o.MaxRetries < 0:
		out.MaxRetries = 0
	}
	if o.BaseDelay > 0 {
		out.BaseDelay = o.BaseDelay
	}
	if o.MaxBodyBytes > 0 {
		out.MaxBodyBytes = o.MaxBodyBytes
	}
	return &out
}

// Fetcher performs HTTP GETs. It holds no per-request state and is safe for concurrent use.
type Fetcher struct {
	transport http.RoundTripper
	defaults  *Options
	logger    *zap.Logger
}

// NewFetcher creates a Fetcher. A nil transport uses http.DefaultTransport.
func NewFetcher(defaults *Options, transport http.RoundTripper, logger *zap.Logger) *Fetcher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		transport: transport,
		defaults:  defaults.merge(DefaultOptions()),
		logger:    logger,
	}
}

// Fetch retrieves urlStr, retrying transient failures. opts overrides the
// fetcher defaults field by field; MaxRetries NoRetries turns retries off.
// On a non-success status the Result is returned alongside the Error.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	o := opts.merge(f.defaults)

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Kind: KindInvalidURL, Message: "invalid URL", Cause: err}
	}

	var lastErr error
	var lastResult *Result
	for attempt := 1; attempt <= o.MaxRetries+1; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(o.BaseDelay, attempt-1, lastErr)
			f.logger.Warn("retrying fetch after transient error",
				zap.String("url", urlStr),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return lastResult, &Error{URL: urlStr, Kind: KindNetwork, Message: "fetch cancelled", Cause: ctx.Err()}
			case <-time.After(delay):
			}
		}

		result, err := f.attempt(ctx, urlStr, o)
		if result != nil {
			result.Attempts = attempt
		}
		if err == nil {
			return result, nil
		}
		lastErr, lastResult = err, result

		var fe *Error
		if !errors.As(err, &fe) || !fe.Retryable() || ctx.Err() != nil {
			return result, err
		}
	}

	return lastResult, lastErr
}

// attempt performs one GET with its own deadline.
func (f *Fetcher) attempt(ctx context.Context, urlStr string, o *Options) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	client := &http.Client{
		Transport: f.transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= o.MaxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindInvalidURL, Message: "failed to create request", Cause: err}
	}
	for key, value := range navigationHeaders {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", o.UserAgent)
	for key, value := range o.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, urlStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, o.MaxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, urlStr, err)
	}

	result := &Result{
		URL:         urlStr,
		FinalURL:    resp.Request.URL.String(),
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        urlStr,
			Kind:       KindHTTP,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return result, nil
}

// classifyTransportError separates an attempt deadline from other network failures.
func classifyTransportError(parent context.Context, urlStr string, err error) *Error {
	if parent.Err() != nil {
		return &Error{URL: urlStr, Kind: KindNetwork, Message: "fetch cancelled", Cause: parent.Err()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{URL: urlStr, Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{URL: urlStr, Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	if errors.Is(err, errTooManyRedirects) {
		return &Error{URL: urlStr, Kind: KindNetwork, Message: "redirect limit exceeded", Cause: errTooManyRedirects}
	}
	return &Error{URL: urlStr, Kind: KindNetwork, Message: "HTTP request failed", Cause: err}
}

// backoffDelay computes baseDelay * 2^(retry-1) with ±30% jitter.
// A Retry-After from a 429/503 takes precedence.
func backoffDelay(base time.Duration, retry int, lastErr error) time.Duration {
	var fe *Error
	if errors.As(lastErr, &fe) && fe.RetryAfter > 0 {
		return fe.RetryAfter
	}

	delay := base
	for i := 1; i < retry; i++ {
		delay *= 2
	}
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
