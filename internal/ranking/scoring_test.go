package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobscout/internal/types"
)

var fixedNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestSkillsScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate []string
		required  []string
		preferred []string
		want      float64
		missing   []string
	}{
		{
			name:      "three of four required, both preferred",
			candidate: []string{"Go", "PostgreSQL", "Docker", "Kafka", "Redis"},
			required:  []string{"Go", "PostgreSQL", "Docker", "Kubernetes"},
			preferred: []string{"Kafka", "Redis"},
			want:      80,
			missing:   []string{"Kubernetes"},
		},
		{
			name:      "no required skills",
			candidate: []string{"Go"},
			want:      100,
		},
		{
			name:      "no preferred skills defaults to full preferred credit",
			candidate: []string{"Go"},
			required:  []string{"Go", "Rust"},
			want:      60,
			missing:   []string{"Rust"},
		},
		{
			name:      "matching uses normalized names",
			candidate: []string{"golang", "k8s"},
			required:  []string{"Go", "Kubernetes"},
			preferred: []string{"AWS"},
			want:      80,
		},
		{
			name:      "nothing matches",
			candidate: []string{"Cobol"},
			required:  []string{"Go"},
			preferred: []string{"Rust"},
			want:      0,
			missing:   []string{"Go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, missing := skillsScore(tt.candidate, tt.required, tt.preferred)
			assert.InDelta(t, tt.want, got, 0.001)
			assert.Equal(t, tt.missing, missing)
		})
	}
}

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		years, required int
		want            float64
	}{
		{5, 0, 100},
		{5, 5, 100},
		{8, 5, 100},
		{4, 5, 80},
		{3, 5, 60},
		{2, 5, 10},
		{0, 5, 0},
		{0, 2, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, experienceScore(tt.years, tt.required), "years=%d required=%d", tt.years, tt.required)
	}
}

func TestCandidateYears(t *testing.T) {
	exp := []types.Experience{
		{StartDate: "2020-01"},
		{StartDate: "2017"},
		{StartDate: "sometime"},
	}
	assert.Equal(t, 8, CandidateYears(exp, fixedNow))
	assert.Equal(t, 0, CandidateYears([]types.Experience{{StartDate: ""}}, fixedNow))
	assert.Equal(t, 0, CandidateYears(nil, fixedNow))
	assert.Equal(t, 3, CandidateYears([]types.Experience{{StartDate: "March 2022"}}, fixedNow))
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		job       string
		remote    bool
		want      float64
	}{
		{"remote job location", "Seattle, WA", "Remote", false, 100},
		{"remote flag", "Seattle, WA", "Austin, TX", true, 100},
		{"same location", "Austin, TX", "Austin, TX", false, 100},
		{"candidate substring of job", "austin", "Austin, TX", false, 100},
		{"shared state token", "Houston, TX", "Austin, TX", false, 80},
		{"no overlap", "Seattle, WA", "Austin, TX", false, 50},
		{"candidate unknown", "", "Austin, TX", false, 50},
		{"job unknown", "Austin, TX", "", false, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locationScore(tt.candidate, tt.job, tt.remote))
		})
	}
}

func TestScore_WeightedAndDeterministic(t *testing.T) {
	profile := &types.ParsedResume{
		Skills:      []string{"Go", "PostgreSQL", "Docker", "Kafka", "Redis"},
		ContactInfo: types.ContactInfo{Location: "Houston, TX"},
		Experience:  []types.Experience{{StartDate: "2021-05"}},
		Education:   []types.Education{{Degree: "B.S."}},
	}
	job := &types.ParsedJobDescription{
		ID:              "job-1",
		Skills:          []string{"Go", "PostgreSQL", "Docker", "Kubernetes"},
		PreferredSkills: []string{"Kafka", "Redis"},
		ExperienceYears: 5,
		EducationLevel:  "master",
		Location:        "Austin, TX",
	}

	r := Score(profile, job, fixedNow)

	// skills 80, experience 4/5 -> 80, education one short -> 80, location 80
	assert.Equal(t, types.ScoreBreakdown{Skills: 80, Experience: 80, Education: 80, Location: 80}, r.Breakdown)
	assert.Equal(t, 80, r.Score)
	assert.Equal(t, []string{"Kubernetes"}, r.MissingSkills)
	assert.Equal(t, 4, r.CandidateYears)

	assert.Equal(t, r, Score(profile, job, fixedNow))
}

func TestScore_EmptyProfileGetsConservativeScore(t *testing.T) {
	job := &types.ParsedJobDescription{
		Skills:          []string{"Go"},
		ExperienceYears: 3,
		EducationLevel:  "bachelor",
		Location:        "Austin, TX",
	}
	r := Score(&types.ParsedResume{}, job, fixedNow)
	assert.Equal(t, types.ScoreBreakdown{Skills: 20, Experience: 10, Education: 0, Location: 50}, r.Breakdown)
	// 0.4*20 + 0.3*10 + 0 + 0.1*50 = 16
	assert.Equal(t, 16, r.Score)
}

func TestScore_DegradedJobScoresZero(t *testing.T) {
	job := &types.ParsedJobDescription{ID: "unparsed", ParseError: true, RawText: "Backend role, remote"}

	got := Score(sampleProfile(), job, fixedNow)

	assert.True(t, got.Degraded)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, types.ScoreBreakdown{}, got.Breakdown)
}
