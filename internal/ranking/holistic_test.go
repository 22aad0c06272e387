package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/llm/llmtest"
	"github.com/jonathan/jobscout/internal/types"
)

func TestHolisticMatcher_KeepsValidEntriesOnly(t *testing.T) {
	response := "```json\n" + `[
  {"job_id": "good", "match_score": 72, "match_reasons": ["Go and Kubernetes overlap"], "missing_skills": ["Terraform"]},
  {"job_id": "strong", "match_score": "91", "match_reasons": "Exact stack match"},
  {"job_id": "weak", "match_score": 40, "match_reasons": ["Different platform"]},
  {"job_id": "strong", "match_score": 95, "match_reasons": ["duplicate"]},
  {"job_id": "ghost", "match_score": 99, "match_reasons": ["not a requested job"]},
  {"job_id": "good", "match_reasons": ["no score"]},
  {"job_id": "weak", "match_score": 88, "match_reasons": []},
  {"job_id": "weak", "match_score": 140, "match_reasons": ["out of range"]},
  "not an object"
]` + "\n```"
	fake := llmtest.New(response)
	h := NewHolisticMatcher(fake, nil)

	matches, err := h.MatchBatch(context.Background(), sampleProfile(), sampleJobs(), &types.JobMatchingCriteria{RemotePreference: true})
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "strong", matches[0].JobID)
	assert.Equal(t, 91, matches[0].MatchScore)
	assert.Equal(t, []string{"Exact stack match"}, matches[0].MatchReasons)
	assert.Equal(t, []string{}, matches[0].MissingSkills)
	assert.Equal(t, "Backend Engineer", matches[0].Title)
	assert.Equal(t, "good", matches[1].JobID)
	assert.Equal(t, []string{"Terraform"}, matches[1].MissingSkills)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "[strong] Backend Engineer")
	assert.Contains(t, calls[0].Prompt, "Skills: Go, PostgreSQL, Kubernetes, AWS")
	assert.Contains(t, calls[0].Prompt, "Prefers remote work")
	assert.NotContains(t, calls[0].Prompt, "{{.")
	assert.True(t, calls[0].Options.JSON)
	assert.Contains(t, calls[0].SystemPrompt, "recruiter")
}

func TestHolisticMatcher_WrappedArray(t *testing.T) {
	h := NewHolisticMatcher(llmtest.New(`{"matches": [{"job_id": "good", "match_score": 64.6, "match_reasons": ["ok"]}]}`), nil)

	matches, err := h.MatchBatch(context.Background(), sampleProfile(), sampleJobs(), nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 65, matches[0].MatchScore)
}

func TestHolisticMatcher_ThresholdUsesUnroundedScore(t *testing.T) {
	h := NewHolisticMatcher(llmtest.New(`[
  {"job_id": "weak", "match_score": 59.5, "match_reasons": ["just under"]},
  {"job_id": "good", "match_score": 60, "match_reasons": ["at the bar"]}
]`), nil)

	matches, err := h.MatchBatch(context.Background(), sampleProfile(), sampleJobs(), nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "good", matches[0].JobID)
	assert.Equal(t, 60, matches[0].MatchScore)
}

func TestHolisticMatcher_UnreadableResponse(t *testing.T) {
	h := NewHolisticMatcher(llmtest.New("I could not score these jobs."), nil)
	_, err := h.MatchBatch(context.Background(), sampleProfile(), sampleJobs(), nil)
	assert.Error(t, err)
}

func TestHolisticMatcher_CompleterError(t *testing.T) {
	boom := errors.New("quota exceeded")
	h := NewHolisticMatcher(&llmtest.Completer{Err: boom}, nil)
	_, err := h.MatchBatch(context.Background(), sampleProfile(), sampleJobs(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestHolisticMatcher_NoJobsSkipsCall(t *testing.T) {
	fake := llmtest.New("[]")
	h := NewHolisticMatcher(fake, nil)

	matches, err := h.MatchBatch(context.Background(), sampleProfile(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, fake.Calls())
}

func TestDescribeJobs_DegradedRecordUsesRawText(t *testing.T) {
	jobs := []*types.ParsedJobDescription{
		{ID: "j1", ParseError: true, RawText: "Raw posting about Go services"},
		{Title: "no id, skipped"},
	}
	out := describeJobs(jobs)
	assert.Contains(t, out, "[j1]")
	assert.Contains(t, out, "Raw posting about Go services")
	assert.NotContains(t, out, "no id")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
