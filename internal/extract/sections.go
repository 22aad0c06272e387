package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section is content harvested under a recognized heading.
type Section struct {
	Name    string `json:"name"`
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// sectionKeywords maps heading phrases to section names. More specific
// phrases come first so "preferred qualifications" is not read as "qualifications".
var sectionKeywords = []struct {
	name    string
	phrases []string
}{
	{"preferred", []string{"preferred qualifications", "nice to have", "nice-to-have", "bonus points", "preferred skills", "pluses"}},
	{"responsibilities", []string{"responsibilities", "what you'll do", "what you will do", "what you’ll do", "your role", "duties", "the role", "in this role"}},
	{"qualifications", []string{"qualifications", "what you bring", "who you are", "what you'll need", "skills and experience", "experience"}},
	{"requirements", []string{"requirements", "what we're looking for", "what we are looking for", "must have", "must-have"}},
	{"benefits", []string{"benefits", "perks", "what we offer", "why join", "why you'll love"}},
	{"compensation", []string{"compensation", "salary", "pay range", "pay transparency"}},
	{"about", []string{"about the company", "about us", "about the team", "who we are", "about"}},
}

const maxHeadingLen = 80

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

// MatchSectionKeyword returns the section name a heading text belongs to.
func MatchSectionKeyword(heading string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(heading))
	if h == "" || len(h) > maxHeadingLen {
		return "", false
	}
	for _, kw := range sectionKeywords {
		for _, phrase := range kw.phrases {
			if strings.Contains(h, phrase) {
				return kw.name, true
			}
		}
	}
	return "", false
}

// Sections walks headings in document order and, for each recognized
// section keyword, collects the sibling content that follows the heading up to
// the next heading. Repeated sections are concatenated.
func Sections(root *goquery.Selection) []Section {
	return SectionsWith(root, MatchSectionKeyword)
}

// HeadingMatcher maps heading text to a section name.
type HeadingMatcher func(heading string) (string, bool)

// PhraseMatcher builds a HeadingMatcher over phrases; a match is named after the phrase.
func PhraseMatcher(phrases []string) HeadingMatcher {
	return func(heading string) (string, bool) {
		h := strings.ToLower(strings.TrimSpace(heading))
		if h == "" || len(h) > maxHeadingLen {
			return "", false
		}
		for _, phrase := range phrases {
			if strings.Contains(h, strings.ToLower(phrase)) {
				return strings.ToLower(phrase), true
			}
		}
		return "", false
	}
}

// SectionsWith is Sections with a caller-supplied heading matcher.
func SectionsWith(root *goquery.Selection, match HeadingMatcher) []Section {
	var out []Section
	index := map[string]int{}

	root.Find("h1, h2, h3, h4, h5, h6, [role='heading'], strong, b").Each(func(_ int, h *goquery.Selection) {
		anchor, ok := headingAnchor(h)
		if !ok {
			return
		}
		headingText := cleanWhitespace(anchor.Text())
		name, ok := match(headingText)
		if !ok {
			return
		}

		var parts []string
		for sib := anchor.Next(); sib.Length() > 0; sib = sib.Next() {
			if isHeading(sib, match) {
				break
			}
			if text := VisibleText(sib); text != "" {
				parts = append(parts, text)
			}
		}
		content := strings.Join(parts, "\n")
		if content == "" {
			return
		}

		if i, seen := index[name]; seen {
			out[i].Content += "\n" + content
			return
		}
		index[name] = len(out)
		out = append(out, Section{Name: name, Heading: headingText, Content: content})
	})

	return out
}

// sectionsFromHTML parses html and runs Sections over its body.
func sectionsFromHTML(html string) []Section {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return Sections(doc.Find("body"))
}

// headingAnchor resolves the element whose siblings hold the section body.
// An inline strong/b counts only when it is the whole text of its parent block.
func headingAnchor(h *goquery.Selection) (*goquery.Selection, bool) {
	name := goquery.NodeName(h)
	if headingTags[name] {
		return h, true
	}
	if _, ok := h.Attr("role"); ok && name != "strong" && name != "b" {
		return h, true
	}
	parent := h.Parent()
	if parent.Length() == 0 {
		return nil, false
	}
	if strings.TrimSpace(parent.Text()) != strings.TrimSpace(h.Text()) {
		return nil, false
	}
	return parent, true
}

func isHeading(s *goquery.Selection, match HeadingMatcher) bool {
	name := goquery.NodeName(s)
	if headingTags[name] {
		return true
	}
	if role, _ := s.Attr("role"); role == "heading" {
		return true
	}
	if name == "p" || name == "div" {
		strong := s.ChildrenFiltered("strong, b")
		if strong.Length() == 1 && strings.TrimSpace(strong.Text()) == strings.TrimSpace(s.Text()) {
			_, ok := match(s.Text())
			return ok
		}
	}
	return false
}
