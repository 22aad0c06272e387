package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "hr": true, "li": true, "main": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "tr": true, "ul": true,
	"body": true, "html": true,
}

var invisibleTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "head": true, "#comment": true,
}

// VisibleText returns the human-visible text of a selection, one block
// element per line, with scripts, styles, noscript, template and svg skipped.
func VisibleText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Each(func(_ int, s *goquery.Selection) {
		if invisibleTags[goquery.NodeName(s)] {
			return
		}
		writeVisible(&b, s)
		b.WriteString("\n")
	})
	return cleanWhitespace(b.String())
}

// VisibleTextFromHTML parses html and returns the visible text of its body.
func VisibleTextFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return VisibleText(doc.Find("body"))
}

func writeVisible(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			b.WriteString(c.Text())
		case invisibleTags[name]:
		case name == "br":
			b.WriteString("\n")
		case blockTags[name]:
			b.WriteString("\n")
			writeVisible(b, c)
			b.WriteString("\n")
		case name == "td" || name == "th":
			writeVisible(b, c)
			b.WriteString(" ")
		default:
			writeVisible(b, c)
		}
	})
}

// cleanWhitespace collapses runs of spaces and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
