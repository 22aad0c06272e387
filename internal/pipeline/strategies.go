package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/jobscout/internal/extract"
	"github.com/jonathan/jobscout/internal/render"
	"github.com/jonathan/jobscout/internal/sites"
	"github.com/jonathan/jobscout/internal/spa"
)

// Strategy names.
const (
	StrategyStatic = "static"
	StrategySPA    = "spa"
	StrategyRender = "render"
	StrategySite   = "site"
	StrategyCache  = "cache"
)

// StaticStrategy runs the selector-driven extractor over the fetched HTML.
type StaticStrategy struct {
	MinVisibleChars int
}

// Name implements Strategy.
func (StaticStrategy) Name() string { return StrategyStatic }

// Attempt implements Strategy.
func (s StaticStrategy) Attempt(_ context.Context, in *Input) (*Attempt, error) {
	a := &Attempt{Strategy: StrategyStatic, RawBytes: len(in.HTML)}
	if in.HTML == "" {
		a.Detail = "no HTML fetched"
		return a, nil
	}

	platform := extract.DetectPlatform(in.URL)
	fields, err := extract.StaticForPlatform(in.HTML, platform)
	if err != nil {
		return a, err
	}
	a.VisibleTextLength = fields.VisibleTextLength
	a.Sufficient = fields.Sufficient(s.MinVisibleChars)
	a.Text = fields.Text()
	a.Detail = fmt.Sprintf("platform=%s json_ld=%t sections=%d", platform, fields.FromJSONLD, len(fields.Sections))
	return a, nil
}

// SPAStrategy mines client-side state embedded in the fetched HTML.
type SPAStrategy struct {
	MinVisibleChars int
}

// Name implements Strategy.
func (SPAStrategy) Name() string { return StrategySPA }

// Attempt implements Strategy. Endpoint-only results are reported in Detail
// and never count as sufficient.
func (s SPAStrategy) Attempt(_ context.Context, in *Input) (*Attempt, error) {
	a := &Attempt{Strategy: StrategySPA, RawBytes: len(in.HTML)}
	if in.HTML == "" {
		a.Detail = "no HTML fetched"
		return a, nil
	}

	c := spa.Mine(in.HTML, in.URL)
	if c == nil {
		a.Detail = "no embedded state found"
		return a, nil
	}
	if c.Strategy == spa.StrategyAPIEndpoint {
		a.Detail = "api endpoints: " + strings.Join(c.Endpoints, ", ")
		return a, nil
	}

	a.Text = c.Text()
	a.VisibleTextLength = runeLen(a.Text)
	a.Sufficient = a.VisibleTextLength >= s.MinVisibleChars
	a.Detail = string(c.Strategy)
	if c.Source != "" {
		a.Detail += " from " + c.Source
	}
	return a, nil
}

// PageRenderer renders a URL in a headless browser.
type PageRenderer interface {
	Render(ctx context.Context, pageURL string) (*render.Result, error)
}

// RenderStrategy loads the page in a headless browser and extracts from the settled DOM.
type RenderStrategy struct {
	Renderer        PageRenderer
	MinVisibleChars int
}

// Name implements Strategy.
func (RenderStrategy) Name() string { return StrategyRender }

// Attempt implements Strategy.
func (s RenderStrategy) Attempt(ctx context.Context, in *Input) (*Attempt, error) {
	a := &Attempt{Strategy: StrategyRender}
	res, err := s.Renderer.Render(ctx, in.URL)
	if err != nil {
		var rerr *render.Error
		if errors.As(err, &rerr) {
			a.Detail = rerr.CauseClass()
		}
		return a, err
	}

	a.RawBytes = len(res.HTML)
	a.HTML = res.HTML
	a.Text = res.ExtractedText
	a.Screenshot = res.Screenshot
	if res.Fields != nil {
		a.VisibleTextLength = res.Fields.VisibleTextLength
		a.Sufficient = res.Fields.Sufficient(s.MinVisibleChars)
	}
	return a, nil
}

// SiteScraper applies per-domain recipes.
type SiteScraper interface {
	Registry() *sites.Registry
	ScrapeOutcome(ctx context.Context, url string) (*sites.Outcome, error)
}

// SiteStrategy applies a per-domain recipe. Unknown domains are skipped.
type SiteStrategy struct {
	Scraper  SiteScraper
	MinChars int
}

// Name implements Strategy.
func (SiteStrategy) Name() string { return StrategySite }

// Attempt implements Strategy. When the scraper's loader is a browser that
// cannot start, the recipe runs over the fetched HTML instead.
func (s SiteStrategy) Attempt(ctx context.Context, in *Input) (*Attempt, error) {
	a := &Attempt{Strategy: StrategySite}
	recipe, ok := s.Scraper.Registry().Lookup(in.URL)
	if !ok {
		a.Detail = "no recipe for domain"
		return a, nil
	}

	source := "loaded"
	out, err := s.Scraper.ScrapeOutcome(ctx, in.URL)
	if err != nil && in.HTML != "" && browserUnavailable(err) {
		source = "fetched HTML, browser unavailable"
		out, err = sites.Apply(recipe, in.HTML, in.URL)
	}
	if err != nil {
		a.Detail = "recipe " + recipe.Name
		return a, err
	}
	a.Text = out.Text()
	a.VisibleTextLength = runeLen(out.Body)
	a.Sufficient = a.VisibleTextLength >= s.MinChars
	a.Detail = fmt.Sprintf("recipe %s stage %d (%s)", out.Recipe, out.Stage, source)
	return a, nil
}

func browserUnavailable(err error) bool {
	var rerr *render.Error
	return errors.As(err, &rerr) && rerr.Environment()
}
