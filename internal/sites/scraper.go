// Package sites holds per-domain scraping recipes for job sites that defeat
// the generic extractors.
package sites

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/extract"
	"github.com/jonathan/jobscout/internal/fetch"
)

// Loader returns the HTML for a URL, waiting for any of waitSelectors when it can.
type Loader interface {
	Load(ctx context.Context, url string, waitSelectors []string) (string, error)
}

// FetchLoader loads pages with a plain HTTP fetch. It ignores wait selectors.
type FetchLoader struct {
	Fetcher *fetch.Fetcher
}

// Load implements Loader.
func (l FetchLoader) Load(ctx context.Context, rawURL string, _ []string) (string, error) {
	res, err := l.Fetcher.Fetch(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// Stage identifies which scraping stage produced the output.
type Stage int

const (
	// StageTargeted used recipe title/location/section selectors
	StageTargeted Stage = 1
	// StageContainer used the main content container
	StageContainer Stage = 2
	// StageHarvest tagged every visible heading, paragraph and list item
	StageHarvest Stage = 3
)

// Outcome is the result of scraping one page.
type Outcome struct {
	Recipe   string
	Stage    Stage
	Title    string
	Company  string
	Location string
	Body     string
}

// Text renders the outcome with backfilled header lines.
func (o *Outcome) Text() string {
	var b strings.Builder
	for _, kv := range [][2]string{{"Title", o.Title}, {"Company", o.Company}, {"Location", o.Location}} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(o.Body)
	return strings.TrimSpace(b.String())
}

// Scraper applies site recipes to pages obtained from a Loader.
type Scraper struct {
	registry *Registry
	loader   Loader
	logger   *zap.Logger
}

// NewScraper creates a Scraper.
func NewScraper(registry *Registry, loader Loader, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{registry: registry, loader: loader, logger: logger}
}

// Registry returns the scraper's recipe registry.
func (s *Scraper) Registry() *Registry {
	return s.registry
}

// Scrape loads rawURL and runs its recipe. Returns ErrUnknownSite when no recipe matches.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (string, error) {
	out, err := s.ScrapeOutcome(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return out.Text(), nil
}

// ScrapeOutcome is Scrape returning the structured outcome.
func (s *Scraper) ScrapeOutcome(ctx context.Context, rawURL string) (*Outcome, error) {
	recipe, ok := s.registry.Lookup(rawURL)
	if !ok {
		return nil, &ScrapeError{URL: rawURL, Cause: ErrUnknownSite}
	}

	html, err := s.loader.Load(ctx, rawURL, recipe.WaitSelectors)
	if err != nil {
		return nil, &ScrapeError{URL: rawURL, Recipe: recipe.Name, Cause: err}
	}

	out, err := Apply(recipe, html, rawURL)
	if err != nil {
		return nil, &ScrapeError{URL: rawURL, Recipe: recipe.Name, Cause: err}
	}
	s.logger.Debug("site recipe applied",
		zap.String("url", rawURL),
		zap.String("recipe", recipe.Name),
		zap.Int("stage", int(out.Stage)),
		zap.Int("chars", utf8.RuneCountInString(out.Body)),
	)
	return out, nil
}

// Apply runs the recipe stages over html. Each stage must produce at least
// MinStageChars of body text or the next, more generic, stage runs. The last
// stage returns whatever visible text exists.
func Apply(recipe *Recipe, html, rawURL string) (*Outcome, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	u, _ := url.Parse(rawURL)

	out := &Outcome{
		Recipe:   recipe.Name,
		Title:    firstText(doc.Selection, recipe.TitleSelectors),
		Location: firstText(doc.Selection, recipe.LocationSelectors),
		Company:  recipe.Company(u),
	}
	if out.Location == "" {
		out.Location = recipe.DefaultLocation
	}

	fullText := extract.VisibleText(doc.Find("body"))

	doc.Find("script, style, noscript, template, svg, nav, footer, form, .cookie-banner, [role='navigation']").Remove()
	gate := recipe.minStageChars()

	if body := targeted(doc, recipe); utf8.RuneCountInString(body) >= gate {
		out.Stage, out.Body = StageTargeted, body
		return out, nil
	}

	if body := container(doc, recipe); utf8.RuneCountInString(body) >= gate {
		out.Stage, out.Body = StageContainer, body
		return out, nil
	}

	body := harvest(doc)
	if body == "" {
		body = fullText
	}
	if body == "" {
		return nil, ErrNoVisibleText
	}
	out.Stage, out.Body = StageHarvest, body
	return out, nil
}

// targeted collects the recipe's named sections.
func targeted(doc *goquery.Document, recipe *Recipe) string {
	if len(recipe.SectionHeadings) == 0 {
		return ""
	}
	sections := extract.SectionsWith(doc.Find("body"), extract.PhraseMatcher(recipe.SectionHeadings))
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Heading+"\n"+s.Content)
	}
	return strings.Join(parts, "\n\n")
}

// container returns the first content container with visible text.
func container(doc *goquery.Document, recipe *Recipe) string {
	selectors := append(append([]string{}, recipe.ContentSelectors...), extract.JobPostingSelectors()...)
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			if text := extract.VisibleText(sel.First()); text != "" {
				return text
			}
		}
	}
	return ""
}

// harvest tags each heading, paragraph and list item with its role.
func harvest(doc *goquery.Document) string {
	var lines []string
	last := ""
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are reported by their innermost element.
		if s.Find("p, li").Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" || text == last {
			return
		}
		last = text
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(goquery.NodeName(s)), text))
	})
	return strings.Join(lines, "\n")
}

func firstText(root *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		var value string
		root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			value = strings.Join(strings.Fields(s.Text()), " ")
			return value == ""
		})
		if value != "" {
			return value
		}
	}
	return ""
}
