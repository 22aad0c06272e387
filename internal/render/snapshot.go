package render

import (
	"strings"

	"github.com/jonathan/jobscout/internal/extract"
)

// noiseScript strips page furniture from the live DOM before the snapshot.
const noiseScript = `(() => {
	const selectors = [
		"script", "style", "noscript", "template", "nav", "footer",
		"[role='navigation']", "[role='dialog']",
		"[id*='cookie' i]", "[class*='cookie' i]", "[id*='consent' i]", "[class*='consent' i]",
		"#onetrust-consent-sdk", ".gdpr-notice"
	];
	let removed = 0;
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach(el => { el.remove(); removed++; });
	}
	return removed;
})()`

// Snapshot runs field extraction over a serialized DOM. Section content the
// body selector missed is appended under its heading.
func Snapshot(html, pageURL string) (*extract.Fields, string, error) {
	fields, err := extract.StaticForPlatform(html, extract.DetectPlatform(pageURL))
	if err != nil {
		return nil, "", err
	}

	var b strings.Builder
	b.WriteString(fields.Text())
	for _, s := range fields.Sections {
		if strings.Contains(fields.BodyText, s.Content) {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(s.Heading)
		b.WriteString("\n")
		b.WriteString(s.Content)
	}

	return fields, strings.TrimSpace(b.String()), nil
}
