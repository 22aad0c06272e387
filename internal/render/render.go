// Package render loads pages in a headless Chrome instance for sites whose
// content only exists after JavaScript runs. Each call gets its own browser.
package render

import (
	"context"
	"errors"
	"net/url"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/extract"
	"github.com/jonathan/jobscout/internal/fetch"
)

// Options configures headless rendering.
type Options struct {
	ExecPath           string // empty searches PATH for a Chrome/Chromium binary
	Headless           bool
	UserAgent          string
	ViewportWidth      int
	ViewportHeight     int
	NavigationTimeout  time.Duration
	NetworkIdleTimeout time.Duration
	SettleDelay        time.Duration
	WaitTimeout        time.Duration
	MinVisibleChars    int
	Screenshot         bool // capture a full-page screenshot when text is insufficient
}

// DefaultOptions returns sensible defaults for rendering.
func DefaultOptions() *Options {
	return &Options{
		Headless:           true,
		UserAgent:          fetch.DefaultUserAgent,
		ViewportWidth:      1366,
		ViewportHeight:     900,
		NavigationTimeout:  45 * time.Second,
		NetworkIdleTimeout: 15 * time.Second,
		SettleDelay:        2 * time.Second,
		WaitTimeout:        8 * time.Second,
		MinVisibleChars:    500,
	}
}

// Result holds the rendered page and what was extracted from it.
type Result struct {
	URL           string
	HTML          string
	ExtractedText string
	Fields        *extract.Fields
	Screenshot    []byte
}

// Renderer drives headless Chrome. It keeps no browser between calls.
type Renderer struct {
	opts     *Options
	logger   *zap.Logger
	lookPath func(string) (string, error)
}

// New creates a Renderer. A nil opts uses DefaultOptions.
func New(opts *Options, logger *zap.Logger) *Renderer {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{opts: opts, logger: logger, lookPath: exec.LookPath}
}

var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// ExecPath resolves the browser binary the renderer would launch.
func (r *Renderer) ExecPath() (string, error) {
	if r.opts.ExecPath != "" {
		return r.lookPath(r.opts.ExecPath)
	}
	for _, name := range browserCandidates {
		if path, err := r.lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

// Render loads pageURL and extracts text from the settled DOM.
func (r *Renderer) Render(ctx context.Context, pageURL string) (*Result, error) {
	return r.RenderWaiting(ctx, pageURL, nil)
}

// Load renders pageURL and returns only the snapshot HTML.
func (r *Renderer) Load(ctx context.Context, pageURL string, waitSelectors []string) (string, error) {
	res, err := r.RenderWaiting(ctx, pageURL, waitSelectors)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// RenderWaiting is Render with an extra wait for any of waitSelectors to become
// visible. That wait has its own shorter timeout and may fail without aborting.
func (r *Renderer) RenderWaiting(ctx context.Context, pageURL string, waitSelectors []string) (*Result, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: pageURL, Kind: KindNavigation, Message: "invalid URL", Cause: err}
	}

	execPath, err := r.ExecPath()
	if err != nil {
		return nil, &Error{URL: pageURL, Kind: KindLaunch, Message: "no Chrome or Chromium binary found", Cause: err}
	}

	o := r.opts
	log := r.logger.With(zap.String("url", pageURL))
	log.Debug("starting headless browser", zap.String("exec_path", execPath))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(execPath),
			chromedp.Flag("headless", o.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(o.UserAgent),
			chromedp.WindowSize(o.ViewportWidth, o.ViewportHeight),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithErrorf(r.logger.Sugar().Debugf))
	defer cancelBrowser()

	// An empty Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, &Error{URL: pageURL, Kind: KindLaunch, Message: "failed to start browser", Cause: err}
	}

	var navigating atomic.Bool
	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" && navigating.Load() {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	navCtx, cancelNav := context.WithTimeout(browserCtx, o.NavigationTimeout)
	defer cancelNav()

	err = chromedp.Run(navCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.EmulateViewport(int64(o.ViewportWidth), int64(o.ViewportHeight)),
		chromedp.ActionFunc(func(context.Context) error {
			navigating.Store(true)
			return nil
		}),
		chromedp.Navigate(pageURL),
	)
	if err != nil {
		return nil, navigationError(navCtx, pageURL, err)
	}

	select {
	case <-idle:
		log.Debug("network idle")
	case <-time.After(o.NetworkIdleTimeout):
		log.Debug("network idle not reached, continuing", zap.Duration("timeout", o.NetworkIdleTimeout))
	case <-navCtx.Done():
		return nil, navigationError(navCtx, pageURL, navCtx.Err())
	}

	if err := chromedp.Run(navCtx, chromedp.Sleep(o.SettleDelay)); err != nil {
		return nil, navigationError(navCtx, pageURL, err)
	}

	if len(waitSelectors) > 0 {
		waitCtx, cancelWait := context.WithTimeout(navCtx, o.WaitTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(strings.Join(waitSelectors, ", "), chromedp.ByQuery))
		cancelWait()
		if err != nil {
			log.Debug("wait selectors not found, continuing", zap.Strings("selectors", waitSelectors), zap.Error(err))
		}
	}

	var removed int
	var html string
	err = chromedp.Run(navCtx,
		chromedp.Evaluate(noiseScript, &removed),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, navigationError(navCtx, pageURL, err)
	}
	log.Debug("rendered page", zap.Int("html_bytes", len(html)), zap.Int("noise_removed", removed))

	fields, text, err := Snapshot(html, pageURL)
	if err != nil {
		return nil, &Error{URL: pageURL, Kind: KindNavigation, Message: "failed to parse rendered DOM", Cause: err}
	}

	result := &Result{URL: pageURL, HTML: html, ExtractedText: text, Fields: fields}

	if o.Screenshot && !fields.Sufficient(o.MinVisibleChars) {
		var shot []byte
		if err := chromedp.Run(navCtx, chromedp.FullScreenshot(&shot, 80)); err != nil {
			log.Warn("diagnostic screenshot failed", zap.Error(err))
		} else {
			result.Screenshot = shot
		}
	}

	return result, nil
}

func navigationError(navCtx context.Context, pageURL string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(navCtx.Err(), context.DeadlineExceeded) {
		return &Error{URL: pageURL, Kind: KindTimeout, Message: "navigation timed out", Cause: err}
	}
	return &Error{URL: pageURL, Kind: KindNavigation, Message: "navigation failed", Cause: err}
}
