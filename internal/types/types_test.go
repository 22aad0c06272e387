package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedJobDescription_Validate(t *testing.T) {
	tests := []struct {
		name    string
		job     ParsedJobDescription
		wantErr bool
	}{
		{name: "valid", job: ParsedJobDescription{ID: "j1", Title: "Engineer", ExperienceYears: 5}},
		{name: "degraded record", job: ParsedJobDescription{ID: "j2", ParseError: true, RawText: "text"}},
		{name: "missing id", job: ParsedJobDescription{Title: "Engineer"}, wantErr: true},
		{name: "negative years", job: ParsedJobDescription{ID: "j3", ExperienceYears: -1}, wantErr: true},
		{name: "years out of range", job: ParsedJobDescription{ID: "j4", ExperienceYears: 61}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsedJobDescription_Summary(t *testing.T) {
	job := &ParsedJobDescription{ID: "j1", Title: "SRE", Company: "Acme", Location: "Remote", RemoteWork: true, SourceRef: "https://acme.test/jobs/1"}

	assert.Equal(t, JobSummary{
		Title:      "SRE",
		Company:    "Acme",
		Location:   "Remote",
		RemoteWork: true,
		SourceRef:  "https://acme.test/jobs/1",
	}, job.Summary())
}

func TestParsedResume_Validate(t *testing.T) {
	valid := ParsedResume{ID: "r1", ContactInfo: ContactInfo{Email: "sam@example.com"}}
	assert.NoError(t, valid.Validate())

	badEmail := ParsedResume{ID: "r2", ContactInfo: ContactInfo{Email: "not-an-email"}}
	assert.Error(t, badEmail.Validate())

	noID := ParsedResume{}
	assert.Error(t, noID.Validate())
}

func TestJobMatchingCriteria_Validate(t *testing.T) {
	assert.NoError(t, (&JobMatchingCriteria{ExperienceYears: 4, EducationLevel: "bachelor"}).Validate())
	assert.NoError(t, (&JobMatchingCriteria{}).Validate())
	assert.Error(t, (&JobMatchingCriteria{EducationLevel: "phd"}).Validate())
	assert.Error(t, (&JobMatchingCriteria{ExperienceYears: 61}).Validate())
}

func TestJobMatch_Validate(t *testing.T) {
	assert.NoError(t, (&JobMatch{JobID: "j1", MatchScore: 80, MatchReasons: []string{"Go"}}).Validate())
	assert.Error(t, (&JobMatch{JobID: "j1", MatchScore: 80}).Validate(), "reasons are required")
	assert.Error(t, (&JobMatch{JobID: "j1", MatchScore: 101, MatchReasons: []string{"x"}}).Validate())
	assert.Error(t, (&JobMatch{MatchScore: 70, MatchReasons: []string{"x"}}).Validate())
}

func TestJobMatch_JSONFlattensSummary(t *testing.T) {
	m := JobMatch{
		JobID:         "j1",
		MatchScore:    72,
		MatchReasons:  []string{"Go overlap"},
		MissingSkills: []string{},
		JobSummary:    JobSummary{Title: "SRE", Company: "Acme"},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "SRE", raw["title"])
	assert.Equal(t, "Acme", raw["company"])
	assert.Equal(t, []any{}, raw["missing_skills"])
	assert.NotContains(t, raw, "breakdown")
}

func TestFrameworkFlags(t *testing.T) {
	assert.False(t, FrameworkFlags{}.Any())
	assert.Nil(t, FrameworkFlags{}.Names())

	f := FrameworkFlags{React: true, NextJS: true}
	assert.True(t, f.Any())
	assert.Equal(t, []string{"React", "Next.js"}, f.Names())
}
