package sites

import (
	"net/url"
	"strings"
)

// DefaultMinStageChars is the output length a stage must reach before the scraper stops.
const DefaultMinStageChars = 300

// Recipe is a per-domain extraction plan.
type Recipe struct {
	Name string
	// DomainPatterns are host suffixes, optionally followed by a path prefix
	// ("google.com/about/careers").
	DomainPatterns    []string
	DefaultCompany    string
	DefaultLocation   string
	TitleSelectors    []string
	LocationSelectors []string
	SectionHeadings   []string
	ContentSelectors  []string
	WaitSelectors     []string
	MinStageChars     int
	// CompanyFromURL derives the company when no default is set (ATS slugs).
	CompanyFromURL func(u *url.URL) string
}

// Matches reports whether the recipe applies to u.
func (r *Recipe) Matches(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	for _, pattern := range r.DomainPatterns {
		patternHost, patternPath, _ := strings.Cut(strings.ToLower(pattern), "/")
		if host != patternHost && !strings.HasSuffix(host, "."+patternHost) {
			continue
		}
		if patternPath == "" || strings.HasPrefix(strings.ToLower(u.Path), "/"+patternPath) {
			return true
		}
	}
	return false
}

func (r *Recipe) minStageChars() int {
	if r.MinStageChars > 0 {
		return r.MinStageChars
	}
	return DefaultMinStageChars
}

// Company returns the configured or URL-derived company name.
func (r *Recipe) Company(u *url.URL) string {
	if r.DefaultCompany != "" {
		return r.DefaultCompany
	}
	if r.CompanyFromURL != nil && u != nil {
		return r.CompanyFromURL(u)
	}
	return ""
}

// firstPathSegment turns "/acme-corp/jobs/1" into "Acme Corp".
func firstPathSegment(u *url.URL) string {
	seg, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	return titleSlug(seg)
}

// firstSubdomain turns "acme.wd5.myworkdayjobs.com" into "Acme".
func firstSubdomain(u *url.URL) string {
	sub, _, _ := strings.Cut(u.Hostname(), ".")
	if sub == "www" || sub == "jobs" || sub == "boards" {
		return ""
	}
	return titleSlug(sub)
}

func titleSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var commonHeadings = []string{
	"responsibilities", "what you'll do", "what you will do", "qualifications",
	"requirements", "what we're looking for", "nice to have", "benefits", "about",
}

// BuiltinRecipes returns the recipes for the job sites we handle specially.
func BuiltinRecipes() []*Recipe {
	return []*Recipe{
		{
			Name:              "workday",
			DomainPatterns:    []string{"myworkdayjobs.com", "myworkdaysite.com", "workday.com"},
			TitleSelectors:    []string{"[data-automation-id='jobPostingHeader']", "h1"},
			LocationSelectors: []string{"[data-automation-id='locations'] dd", "[data-automation-id='locations']"},
			SectionHeadings:   commonHeadings,
			ContentSelectors:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='job-posting-details']"},
			WaitSelectors:     []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobPostingHeader']"},
			CompanyFromURL:    firstSubdomain,
		},
		{
			Name:              "greenhouse",
			DomainPatterns:    []string{"greenhouse.io"},
			TitleSelectors:    []string{".job__title h1", ".app-title", "h1.section-header", "h1"},
			LocationSelectors: []string{".job__location", ".location"},
			SectionHeadings:   commonHeadings,
			ContentSelectors:  []string{".job__description", "#content"},
			WaitSelectors:     []string{".job__description", "#content"},
			CompanyFromURL:    firstPathSegment,
		},
		{
			Name:              "lever",
			DomainPatterns:    []string{"lever.co"},
			TitleSelectors:    []string{".posting-headline h2", ".posting-headline"},
			LocationSelectors: []string{".posting-categories .location", ".location"},
			SectionHeadings:   commonHeadings,
			ContentSelectors:  []string{".section-wrapper.page-full-width", ".posting-page"},
			WaitSelectors:     []string{".posting-headline"},
			CompanyFromURL:    firstPathSegment,
		},
		{
			Name:              "ashby",
			DomainPatterns:    []string{"ashbyhq.com"},
			TitleSelectors:    []string{"h1[class*='title']", "h1"},
			LocationSelectors: []string{"[class*='location'] p", "[class*='location']"},
			SectionHeadings:   commonHeadings,
			ContentSelectors:  []string{"[class*='descriptionText']", "[class*='description']"},
			WaitSelectors:     []string{"[class*='descriptionText']", "h1"},
			CompanyFromURL:    firstPathSegment,
		},
		{
			Name:              "google",
			DomainPatterns:    []string{"careers.google.com", "google.com/about/careers"},
			DefaultCompany:    "Google",
			TitleSelectors:    []string{"h2.p1N2lc", "h1"},
			LocationSelectors: []string{"span.r0wTof", "[class*='location']"},
			SectionHeadings:   []string{"minimum qualifications", "preferred qualifications", "about the job", "responsibilities"},
			ContentSelectors:  []string{"main"},
			WaitSelectors:     []string{"h3", "main"},
		},
		{
			Name:              "amazon",
			DomainPatterns:    []string{"amazon.jobs"},
			DefaultCompany:    "Amazon",
			TitleSelectors:    []string{"h1.title", "h1"},
			LocationSelectors: []string{".location-icon + ul li", ".details-line .location", ".location"},
			SectionHeadings:   []string{"description", "basic qualifications", "preferred qualifications"},
			ContentSelectors:  []string{"#job-detail-body", ".job-detail-body"},
			WaitSelectors:     []string{"#job-detail-body", "h1.title"},
		},
	}
}
