// Package extract pulls job fields and readable text out of already-rendered
// HTML. Everything here is pure: no I/O, safe for concurrent use.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Fields is the result of static extraction over one HTML document.
type Fields struct {
	Title             string    `json:"title,omitempty"`
	Company           string    `json:"company,omitempty"`
	Location          string    `json:"location,omitempty"`
	EmploymentType    string    `json:"employment_type,omitempty"`
	DatePosted        string    `json:"date_posted,omitempty"`
	Salary            string    `json:"salary,omitempty"`
	Remote            bool      `json:"remote,omitempty"`
	BodyText          string    `json:"body_text"`
	VisibleTextLength int       `json:"visible_text_length"`
	Sections          []Section `json:"sections,omitempty"`
	Platform          Platform  `json:"platform"`
	FromJSONLD        bool      `json:"from_json_ld,omitempty"`
}

// Sufficient reports whether the body carries at least minChars visible characters.
func (f *Fields) Sufficient(minChars int) bool {
	return f != nil && f.VisibleTextLength >= minChars
}

// Text renders the fields as plain text, header lines first.
func (f *Fields) Text() string {
	var b strings.Builder
	writeLine := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeLine("Title", f.Title)
	writeLine("Company", f.Company)
	writeLine("Location", f.Location)
	writeLine("Employment Type", f.EmploymentType)
	writeLine("Salary", f.Salary)
	writeLine("Posted", f.DatePosted)
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(f.BodyText)
	return strings.TrimSpace(b.String())
}

type fieldSelector struct {
	css  string
	attr string // empty means element text
}

var titleSelectors = []fieldSelector{
	{css: "[data-automation-id='jobPostingHeader']"},
	{css: "h1[class*='job-title'], h1[class*='jobTitle'], h1[class*='posting-title']"},
	{css: "[class*='job-title']"},
	{css: "[class*='jobTitle']"},
	{css: ".posting-headline h2"},
	{css: ".app-title"},
	{css: "h1"},
	{css: "meta[property='og:title']", attr: "content"},
	{css: "meta[name='twitter:title']", attr: "content"},
	{css: "title"},
}

var companySelectors = []fieldSelector{
	{css: "[data-testid='company-name']"},
	{css: "[class*='company-name']"},
	{css: "[class*='companyName']"},
	{css: "[itemprop='hiringOrganization'] [itemprop='name']"},
	{css: ".company"},
	{css: "meta[property='og:site_name']", attr: "content"},
}

var locationSelectors = []fieldSelector{
	{css: "[data-automation-id='locations'] dd"},
	{css: "[data-automation-id='locations']"},
	{css: "[class*='job-location']"},
	{css: "[class*='jobLocation']"},
	{css: ".posting-categories .location"},
	{css: "[itemprop='jobLocation']"},
	{css: ".location"},
	{css: "[class*='location']"},
}

// Static extracts fields from html using the generic selector lists.
func Static(html string) (*Fields, error) {
	return StaticForPlatform(html, PlatformUnknown)
}

// StaticForPlatform extracts fields from html, trying the platform's content
// and noise selectors before the generic ones. For each field the first
// non-empty match wins; JSON-LD JobPosting data is consulted first.
func StaticForPlatform(html string, platform Platform) (*Fields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	fields := &Fields{Platform: platform}

	// Metadata lives in <head> and ld+json scripts, so read it before stripping.
	jp := findJobPosting(doc)
	if jp != nil {
		fields.FromJSONLD = true
		fields.Title = jp.Title
		fields.Company = jp.Company
		fields.Location = jp.Location
		fields.EmploymentType = jp.EmploymentType
		fields.DatePosted = jp.DatePosted
		fields.Salary = jp.Salary
		fields.Remote = jp.Remote
	}
	if fields.Title == "" {
		fields.Title = firstMatch(doc.Selection, titleSelectors)
	}
	if fields.Company == "" {
		fields.Company = firstMatch(doc.Selection, companySelectors)
	}

	if fields.Location == "" {
		fields.Location = firstMatch(doc.Selection, locationSelectors)
	}

	doc.Find(chromeSelectors).Remove()
	doc.Find(strings.Join(NoiseSelectors(platform), ", ")).Remove()

	body := ""
	for _, selector := range ContentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			if text := VisibleText(sel.First()); text != "" {
				body = text
				break
			}
		}
	}
	if body == "" {
		body = VisibleText(doc.Find("body"))
	}
	if jp != nil && utf8.RuneCountInString(jp.Description) > utf8.RuneCountInString(body) {
		body = jp.Description
	}

	fields.BodyText = body
	fields.VisibleTextLength = utf8.RuneCountInString(body)
	fields.Sections = Sections(doc.Find("body"))

	if !fields.Remote && strings.Contains(strings.ToLower(fields.Location), "remote") {
		fields.Remote = true
	}

	return fields, nil
}

func firstMatch(root *goquery.Selection, selectors []fieldSelector) string {
	for _, fs := range selectors {
		var value string
		root.Find(fs.css).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if fs.attr != "" {
				value, _ = s.Attr(fs.attr)
			} else {
				value = s.Text()
			}
			value = strings.Join(strings.Fields(value), " ")
			return value == "" || len(value) > 200
		})
		if value != "" && len(value) <= 200 {
			return value
		}
	}
	return ""
}
