package types

import (
	"github.com/go-playground/validator/v10"
)

// JobMatchingCriteria is derived once per candidate profile and lives for a single matching run.
type JobMatchingCriteria struct {
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills,omitempty"`
	ExperienceYears  int      `json:"experience_years" validate:"gte=0,lte=60"`
	EducationLevel   string   `json:"education_level,omitempty" validate:"omitempty,oneof=high_school associate bachelor master doctorate"`
	JobTypes         []string `json:"job_types,omitempty"`
	Locations        []string `json:"locations,omitempty"`
	SalaryMin        int      `json:"salary_min,omitempty" validate:"gte=0"`
	RemotePreference bool     `json:"remote_preference"`
}

// Validate validates the JobMatchingCriteria using the validator.
func (c *JobMatchingCriteria) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// JobSummary echoes identifying job fields on a match result.
type JobSummary struct {
	Title      string `json:"title,omitempty"`
	Company    string `json:"company,omitempty"`
	Location   string `json:"location,omitempty"`
	RemoteWork bool   `json:"remote_work"`
	SourceRef  string `json:"source_ref,omitempty"`
}

// ScoreBreakdown holds the four deterministic sub-scores, each 0-100.
type ScoreBreakdown struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Location   int `json:"location"`
}

// JobMatch is the output record for one (candidate, job) pair.
type JobMatch struct {
	JobID         string          `json:"job_id" validate:"required"`
	MatchScore    int             `json:"match_score" validate:"gte=0,lte=100"`
	MatchReasons  []string        `json:"match_reasons" validate:"required,min=1"`
	MissingSkills []string        `json:"missing_skills"`
	Breakdown     *ScoreBreakdown `json:"breakdown,omitempty"`
	JobSummary
}

// Validate validates the JobMatch using the validator.
func (m *JobMatch) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}
