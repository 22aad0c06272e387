package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections_HeadingDriven(t *testing.T) {
	html := `<html><body>
		<h2>About the Company</h2>
		<p>We build tools for farmers.</p>
		<h2>Responsibilities</h2>
		<ul><li>Design APIs</li><li>Review code</li></ul>
		<p>Own on-call rotation</p>
		<h2>Minimum Qualifications</h2>
		<ul><li>5+ years of Go</li></ul>
		<h3>Preferred Qualifications</h3>
		<ul><li>Kubernetes</li></ul>
		<h2>Equal Opportunity</h2>
		<p>We do not discriminate.</p>
	</body></html>`

	sections := sectionsFromHTML(html)
	require.Len(t, sections, 4)

	byName := map[string]Section{}
	for _, s := range sections {
		byName[s.Name] = s
	}

	assert.Equal(t, "We build tools for farmers.", byName["about"].Content)
	assert.Equal(t, "Design APIs\nReview code\nOwn on-call rotation", byName["responsibilities"].Content)
	assert.Equal(t, "5+ years of Go", byName["qualifications"].Content)
	assert.Equal(t, "Kubernetes", byName["preferred"].Content)
	assert.NotContains(t, byName["preferred"].Content, "discriminate")
}

func TestSections_StrongParagraphHeadings(t *testing.T) {
	html := `<html><body><div>
		<p><strong>What you'll do</strong></p>
		<p>Ship features weekly.</p>
		<p><strong>Benefits</strong></p>
		<p>Health insurance.</p>
		<p>This role is <strong>remote</strong> friendly.</p>
	</div></body></html>`

	sections := sectionsFromHTML(html)
	require.Len(t, sections, 2)
	assert.Equal(t, "responsibilities", sections[0].Name)
	assert.Equal(t, "Ship features weekly.", sections[0].Content)
	assert.Equal(t, "benefits", sections[1].Name)
	assert.Contains(t, sections[1].Content, "Health insurance.")
}

func TestSections_NoHeadings(t *testing.T) {
	assert.Empty(t, sectionsFromHTML(`<html><body><p>Just text.</p></body></html>`))
}

func TestMatchSectionKeyword(t *testing.T) {
	tests := []struct {
		heading string
		name    string
		ok      bool
	}{
		{"Responsibilities", "responsibilities", true},
		{"Preferred Qualifications", "preferred", true},
		{"Basic Qualifications", "qualifications", true},
		{"What we offer", "benefits", true},
		{"Compensation", "compensation", true},
		{"Apply now", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			name, ok := MatchSectionKeyword(tt.heading)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestSectionsWith_PhraseMatcher(t *testing.T) {
	html := `<html><body>
		<h3>Basic Qualifications</h3><p>Go and SQL.</p>
		<h3>Job Description</h3><p>Lead migrations.</p>
		<h3>Responsibilities</h3><p>Not requested.</p>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	sections := SectionsWith(doc.Find("body"), PhraseMatcher([]string{"Basic Qualifications", "Job Description"}))
	require.Len(t, sections, 2)
	assert.Equal(t, "basic qualifications", sections[0].Name)
	assert.Equal(t, "Go and SQL.", sections[0].Content)
	assert.Equal(t, "job description", sections[1].Name)
	assert.Equal(t, "Lead migrations.", sections[1].Content)
}
