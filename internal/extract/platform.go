package extract

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	hosts    []string
}{
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"myworkdayjobs.com", "workday.com"}},
	{PlatformAshby, []string{"ashbyhq.com"}},
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, p := range platformHosts {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns description container selectors for a platform,
// most specific first. Unknown platforms get the generic job posting list.
func ContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return append([]string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}, JobPostingSelectors()...)
	case PlatformLever:
		return append([]string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
		}, JobPostingSelectors()...)
	case PlatformWorkday:
		return append([]string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".gwt-HTML",
		}, JobPostingSelectors()...)
	case PlatformAshby:
		return append([]string{
			"[class*='descriptionText']",
			".ashby-job-posting-right-pane",
		}, JobPostingSelectors()...)
	default:
		return JobPostingSelectors()
	}
}

// JobPostingSelectors returns selectors optimized for job board pages.
func JobPostingSelectors() []string {
	return []string{
		"[itemprop='description']",
		".job-description",
		".jobDescription",
		"#job-description",
		"#jobDescriptionText",
		".job-content",
		"#job-content",
		".posting-content",
		".job-details",
		".description__text",
		"[data-testid='job-description']",
		"[class*='job-description']",
		"[class*='JobDescription']",
		"main",
		"article",
		"[role='main']",
		".content",
		"#content",
	}
}

// NoiseSelectors returns elements to remove before text extraction.
func NoiseSelectors(platform Platform) []string {
	common := []string{
		// Application forms
		"form",
		"#application-form",
		".application-form",
		".application--container",
		".apply-button-container",
		"[data-testid='application-form']",

		// EEO and legal
		".voluntary-disclosure",
		".eeo-statement",
		".eeo-section",
		"[data-testid='eeo']",
		".legal-disclosure",
		".self-identification",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		"#onetrust-banner-sdk",
		"#onetrust-consent-sdk",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common,
			".application--wrapper",
			".voluntary-self-id",
			".voluntary-self-id-wrapper",
			"#usa_self_id_section",
			".post-apply",
		)
	case PlatformLever:
		return append(common,
			".apply-section",
			".lever-application-form",
			".posting-apply",
		)
	case PlatformWorkday:
		return append(common,
			"[data-automation-id='applyButton']",
			"[data-automation-id='footerContainer']",
			".application-section",
		)
	case PlatformAshby:
		return append(common,
			".ashby-application-form-container",
			"[class*='applicationForm']",
		)
	default:
		return common
	}
}

// chromeSelectors are page furniture removed from every document.
const chromeSelectors = "script, style, noscript, template, svg, iframe, nav, footer, header, aside, .ad, .advertisement, .ads, .sidebar, .popup, [role='navigation'], [role='banner'], [aria-hidden='true']"
