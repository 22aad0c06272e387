// Package diagnose explains why content extraction failed for a page and
// what a person can do about it. It never fetches or extracts anything itself.
package diagnose

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/extract"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	// ScriptHeavyRatio is the script-to-HTML byte ratio above which a page is treated as a JS app.
	ScriptHeavyRatio = 0.8
	// LowTextThreshold is the visible text length below which a script-heavy page is considered empty.
	LowTextThreshold = 1000
)

var scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script\s*>`)

type fingerprint struct {
	set     func(*types.FrameworkFlags)
	markers []string
}

var frameworkFingerprints = []fingerprint{
	{func(f *types.FrameworkFlags) { f.React = true }, []string{"data-reactroot", "data-reactid", "__react", "react-dom", "_reactrootcontainer"}},
	{func(f *types.FrameworkFlags) { f.Vue = true }, []string{"data-v-", "__vue__", "vue.runtime", "vue.global", "id=\"app\" data-server-rendered"}},
	{func(f *types.FrameworkFlags) { f.Angular = true }, []string{"ng-version", "ng-app", "_nghost", "_ngcontent", "angular.min.js"}},
	{func(f *types.FrameworkFlags) { f.NextJS = true }, []string{"__next_data__", "/_next/static", "id=\"__next\""}},
	{func(f *types.FrameworkFlags) { f.Nuxt = true }, []string{"__nuxt__", "/_nuxt/", "id=\"__nuxt\""}},
	{func(f *types.FrameworkFlags) { f.Svelte = true }, []string{"svelte-", "__sveltekit", "data-sveltekit"}},
}

var shadowDOMMarkers = []string{"attachshadow", "shadowroot", "<template shadowrootmode", "<template shadowroot"}

type knownDomain struct {
	name  string
	hosts []string
	steps []string
}

var knownDomains = []knownDomain{
	{
		name:  "LinkedIn",
		hosts: []string{"linkedin.com"},
		steps: []string{
			"Sign in to LinkedIn in your browser and open the job posting",
			"Click \"See more\" to expand the full job description",
			"Select the description text from the title down to the end of the requirements",
			"Copy it and paste it into the manual job description field",
		},
	},
	{
		name:  "Indeed",
		hosts: []string{"indeed.com"},
		steps: []string{
			"Open the posting on Indeed and complete any verification challenge",
			"Scroll to the \"Full job description\" section",
			"Select and copy the full description",
			"Paste it into the manual job description field",
		},
	},
	{
		name:  "Glassdoor",
		hosts: []string{"glassdoor.com", "glassdoor.co.uk", "glassdoor.ca"},
		steps: []string{
			"Sign in to Glassdoor and open the job listing",
			"Dismiss the sign-up overlay if one appears",
			"Click \"Show more\" under the job description",
			"Copy the full description and paste it into the manual job description field",
		},
	},
	{
		name:  "Workday",
		hosts: []string{"myworkdayjobs.com", "workday.com"},
		steps: []string{
			"Open the posting in your browser and wait for the page to finish loading",
			"Expand every collapsed section of the job description",
			"Select the text from the job title through the qualifications",
			"Paste it into the manual job description field",
		},
	},
}

var genericSteps = []string{
	"Open the job posting in your browser",
	"Select the job title, company, location and full description",
	"Copy the text and paste it into the manual job description field",
}

// Analyze inspects html fetched from pageURL and produces a diagnosis.
// The first matching rule decides the cause; every outcome ends in manual entry.
func Analyze(html, pageURL string) *types.ExtractionDiagnosis {
	d := &types.ExtractionDiagnosis{
		URL:      pageURL,
		HTMLSize: len(html),
	}

	if len(html) > 0 {
		scriptBytes := 0
		for _, m := range scriptBlock.FindAllStringSubmatch(html, -1) {
			scriptBytes += len(m[0])
		}
		d.ScriptToHTMLRatio = float64(scriptBytes) / float64(len(html))
	}

	d.VisibleTextLength = len([]rune(extract.VisibleTextFromHTML(html)))

	lower := strings.ToLower(html)
	for _, fp := range frameworkFingerprints {
		for _, marker := range fp.markers {
			if strings.Contains(lower, marker) {
				fp.set(&d.Frameworks)
				break
			}
		}
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		d.HasIframe = doc.Find("iframe, frame").Length() > 0
	}
	for _, marker := range shadowDOMMarkers {
		if strings.Contains(lower, marker) {
			d.HasShadowDOM = true
			break
		}
	}

	d.TechnicalDetails = technicalDetails(d)
	decide(d, pageURL)
	return d
}

func decide(d *types.ExtractionDiagnosis, pageURL string) {
	switch {
	case d.ScriptToHTMLRatio > ScriptHeavyRatio && d.VisibleTextLength < LowTextThreshold:
		d.Cause = types.CauseJavaScriptApp
		d.RecommendedAction = "This page is a JavaScript-heavy app that renders the job description in the browser. Copy the description from your browser and paste it manually."
		d.ManualSteps = slices.Clone(genericSteps)
	case d.HasIframe:
		d.Cause = types.CauseIframe
		d.RecommendedAction = "The job description is embedded in an iframe from another site. Open the embedded posting directly or copy and paste the description manually."
		d.ManualSteps = append([]string{"Right-click the job description and open the frame in a new tab if your browser offers it"}, genericSteps...)
	case d.HasShadowDOM:
		d.Cause = types.CauseShadowDOM
		d.RecommendedAction = "The page hides its content inside shadow DOM components that cannot be read from the HTML. Copy and paste the description manually."
		d.ManualSteps = slices.Clone(genericSteps)
	default:
		if kd, ok := matchKnownDomain(pageURL); ok {
			d.Cause = types.CauseKnownDomain
			d.RecommendedAction = fmt.Sprintf("%s blocks automated extraction. Follow the steps below to copy the posting manually.", kd.name)
			d.ManualSteps = slices.Clone(kd.steps)
			return
		}
		d.Cause = types.CauseUnknown
		d.RecommendedAction = "The job description could not be extracted automatically. Copy and paste it manually."
		d.ManualSteps = slices.Clone(genericSteps)
	}
}

func matchKnownDomain(pageURL string) (knownDomain, bool) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return knownDomain{}, false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, kd := range knownDomains {
		for _, h := range kd.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return kd, true
			}
		}
	}
	return knownDomain{}, false
}

func technicalDetails(d *types.ExtractionDiagnosis) []string {
	details := []string{
		fmt.Sprintf("HTML size: %d bytes", d.HTMLSize),
		fmt.Sprintf("Script to HTML ratio: %.2f", d.ScriptToHTMLRatio),
		fmt.Sprintf("Visible text: %d characters", d.VisibleTextLength),
	}
	if names := d.Frameworks.Names(); len(names) > 0 {
		details = append(details, "Frameworks detected: "+strings.Join(names, ", "))
	}
	if d.HasIframe {
		details = append(details, "Page contains iframes")
	}
	if d.HasShadowDOM {
		details = append(details, "Page uses shadow DOM")
	}
	return details
}
