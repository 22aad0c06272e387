package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/jobscout/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintJobDescription(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.ParsedJobDescription{
		ID:              "job-1",
		Title:           "Senior Engineer",
		Company:         "Acme Corp",
		Location:        "Berlin",
		RemoteWork:      true,
		Skills:          []string{"Go", "Kubernetes"},
		PreferredSkills: []string{"Rust"},
		ExperienceYears: 5,
	}

	p.PrintJobDescription(job)
	output := buf.String()

	assert.Contains(t, output, "PARSED JOB DESCRIPTION")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Berlin (remote)")
	assert.Contains(t, output, "5+ years")
	assert.Contains(t, output, "Kubernetes")
	assert.Contains(t, output, "Rust")
}

func TestPrintJobDescription_Degraded(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobDescription(&types.ParsedJobDescription{
		ID:               "job-2",
		ParseError:       true,
		ParseErrorReason: "response is not valid JSON",
		RawText:          "some text",
	})

	assert.Contains(t, buf.String(), "DEGRADED")
	assert.Contains(t, buf.String(), "response is not valid JSON")
}

func TestPrintJobDescription_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJobDescription(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(&types.ParsedResume{
		ID:          "r-1",
		ContactInfo: types.ContactInfo{Name: "Sam Lee", Location: "Austin, TX"},
		Skills:      []string{"Go", "SQL", "Docker", "AWS", "Kafka", "Redis"},
		Experience: []types.Experience{
			{Title: "Engineer", Company: "Initech", StartDate: "2019", EndDate: "present"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Sam Lee")
	assert.Contains(t, output, "Engineer @ Initech (2019 - present)")
	assert.Contains(t, output, "... and 1 more")
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatches([]types.JobMatch{
		{
			JobID:         "job-1",
			MatchScore:    91,
			MatchReasons:  []string{"Strong Go background"},
			MissingSkills: []string{"Terraform"},
			Breakdown:     &types.ScoreBreakdown{Skills: 90, Experience: 100, Education: 100, Location: 50},
			JobSummary:    types.JobSummary{Title: "Platform Engineer", Company: "Acme"},
		},
		{JobID: "job-2", MatchScore: 64, MatchReasons: []string{"Partial overlap"}},
	})
	output := buf.String()

	assert.Contains(t, output, "2 matching jobs")
	assert.Contains(t, output, "#1  Platform Engineer @ Acme")
	assert.Contains(t, output, "Score: 91 (skills 90")
	assert.Contains(t, output, "Missing: Terraform")
	assert.Contains(t, output, "#2  job-2")
}

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatches(nil)
	assert.Contains(t, buf.String(), "NO JOBS SCORED 60 OR HIGHER")
}

func TestPrintDiagnosis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDiagnosis(&types.ExtractionDiagnosis{
		Cause:             types.CauseIframe,
		RecommendedAction: "The job description is embedded in an iframe from another site. Open the embedded posting directly.",
		ManualSteps:       []string{"Open the posting", "Copy the text"},
		TechnicalDetails:  []string{"HTML size: 120 bytes"},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTION FAILED")
	assert.Contains(t, output, "Cause: iframe")
	assert.Contains(t, output, "1. Open the posting")
	assert.Contains(t, output, "HTML size: 120 bytes")
}

func TestPrintBox_ClipsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
	assert.Equal(t, "", wrap("   ", 10))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(true, true)
	assert.NoError(t, err)
	assert.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(-1))
}
