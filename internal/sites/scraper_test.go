package sites

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/fetch"
)

type fakeLoader struct {
	html     string
	err      error
	gotWaits []string
	calls    int
}

func (f *fakeLoader) Load(_ context.Context, _ string, waitSelectors []string) (string, error) {
	f.calls++
	f.gotWaits = waitSelectors
	return f.html, f.err
}

var amazonPage = `<html><body>
	<h1 class="title">Software Development Engineer</h1>
	<div class="details-line"><span class="location">Seattle, WA, USA</span></div>
	<div id="job-detail-body">
		<h2>Description</h2>
		<p>` + strings.Repeat("You will design and build large-scale services for the retail platform. ", 4) + `</p>
		<h2>Basic Qualifications</h2>
		<ul><li>` + strings.Repeat("3+ years of non-internship professional software development experience. ", 3) + `</li></ul>
	</div>
</body></html>`

func TestApply_TargetedStage(t *testing.T) {
	recipe, ok := DefaultRegistry().Lookup("https://www.amazon.jobs/en/jobs/1")
	require.True(t, ok)

	out, err := Apply(recipe, amazonPage, "https://www.amazon.jobs/en/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, StageTargeted, out.Stage)
	assert.Equal(t, "Software Development Engineer", out.Title)
	assert.Equal(t, "Amazon", out.Company)
	assert.Equal(t, "Seattle, WA, USA", out.Location)
	assert.Contains(t, out.Body, "Basic Qualifications\n3+ years")

	text := out.Text()
	assert.True(t, strings.HasPrefix(text, "Title: Software Development Engineer\nCompany: Amazon\nLocation: Seattle, WA, USA\n\n"))
}

func TestApply_ContainerStage(t *testing.T) {
	recipe := &Recipe{
		Name:             "test",
		SectionHeadings:  []string{"responsibilities"},
		ContentSelectors: []string{".posting"},
		MinStageChars:    100,
	}
	html := `<html><body><div class="posting"><p>` + strings.Repeat("Ship reliable software every day. ", 5) + `</p></div></body></html>`

	out, err := Apply(recipe, html, "https://example.com/job")
	require.NoError(t, err)
	assert.Equal(t, StageContainer, out.Stage)
	assert.Contains(t, out.Body, "Ship reliable software")
}

func TestApply_HarvestStageWithDefaults(t *testing.T) {
	recipe := &Recipe{
		Name:            "test",
		DefaultCompany:  "Google",
		DefaultLocation: "Mountain View, CA",
		MinStageChars:   1000,
	}
	html := `<html><body><div><h2>Engineer</h2><p>Short blurb.</p><ul><li>Go</li><li>Go</li></ul></div></body></html>`

	out, err := Apply(recipe, html, "https://careers.google.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, StageHarvest, out.Stage)
	assert.Equal(t, "[H2] Engineer\n[P] Short blurb.\n[LI] Go", out.Body)
	assert.Equal(t, "Google", out.Company)
	assert.Equal(t, "Mountain View, CA", out.Location)
}

func TestApply_HarvestFallsBackToAnyVisibleText(t *testing.T) {
	recipe := &Recipe{Name: "test"}
	html := `<html><body><nav>Only navigation text</nav></body></html>`

	out, err := Apply(recipe, html, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, StageHarvest, out.Stage)
	assert.Equal(t, "Only navigation text", out.Body)
}

func TestApply_TitleIgnoresSectionHeadings(t *testing.T) {
	html := `<html><body><div class="posting-page">
		<h2>Responsibilities</h2>
		<ul><li>` + strings.Repeat("Own the billing API end to end. ", 12) + `</li></ul>
	</div></body></html>`

	for _, pageURL := range []string{
		"https://jobs.lever.co/acme/1",
		"https://acme.wd5.myworkdayjobs.com/External/job/1",
		"https://careers.google.com/jobs/results/1",
	} {
		recipe, ok := DefaultRegistry().Lookup(pageURL)
		require.True(t, ok, pageURL)

		out, err := Apply(recipe, html, pageURL)
		require.NoError(t, err, pageURL)
		assert.Empty(t, out.Title, pageURL)
		assert.NotContains(t, out.Text(), "Title: Responsibilities", pageURL)
	}
}

func TestApply_NoVisibleText(t *testing.T) {
	_, err := Apply(&Recipe{Name: "test"}, `<html><body><script>x()</script></body></html>`, "https://example.com/")
	assert.ErrorIs(t, err, ErrNoVisibleText)
}

func TestScraper_Scrape(t *testing.T) {
	loader := &fakeLoader{html: amazonPage}
	s := NewScraper(DefaultRegistry(), loader, nil)

	text, err := s.Scrape(context.Background(), "https://www.amazon.jobs/en/jobs/1")
	require.NoError(t, err)
	assert.Contains(t, text, "Company: Amazon")
	assert.Equal(t, []string{"#job-detail-body", "h1.title"}, loader.gotWaits)
}

func TestScraper_UnknownSite(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScraper(DefaultRegistry(), loader, nil)

	_, err := s.Scrape(context.Background(), "https://example.com/job")
	assert.ErrorIs(t, err, ErrUnknownSite)
	assert.Equal(t, 0, loader.calls)
}

func TestScraper_LoaderError(t *testing.T) {
	boom := errors.New("browser crashed")
	s := NewScraper(DefaultRegistry(), &fakeLoader{err: boom}, nil)

	_, err := s.Scrape(context.Background(), "https://jobs.lever.co/acme/1")
	require.Error(t, err)

	var scrapeErr *ScrapeError
	require.ErrorAs(t, err, &scrapeErr)
	assert.Equal(t, "lever", scrapeErr.Recipe)
	assert.ErrorIs(t, err, boom)
}

func TestFetchLoader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer server.Close()

	loader := FetchLoader{Fetcher: fetch.NewFetcher(nil, nil, nil)}
	html, err := loader.Load(context.Background(), server.URL, []string{"ignored"})
	require.NoError(t, err)
	assert.Contains(t, html, "hello")
}
