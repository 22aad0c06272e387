// Package types provides type definitions for structured data used throughout the jobscout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// ParsedJobDescription represents a structured job posting extracted from raw text.
// Records are immutable once built; a re-parse produces a new record with a new ID.
type ParsedJobDescription struct {
	ID              string       `json:"id" validate:"required"`
	SourceRef       string       `json:"source_ref,omitempty"` // URL or file the text came from
	Title           string       `json:"title,omitempty"`
	Company         string       `json:"company,omitempty"`
	Location        string       `json:"location,omitempty"`
	Description     string       `json:"description,omitempty"`
	Requirements    []string     `json:"requirements,omitempty"`
	NiceToHave      []string     `json:"nice_to_have,omitempty"`
	Skills          []string     `json:"skills,omitempty"`           // required skills
	PreferredSkills []string     `json:"preferred_skills,omitempty"` // nice-to-have skills
	SalaryRange     *SalaryRange `json:"salary_range,omitempty"`
	EmploymentType  string       `json:"employment_type,omitempty"`  // full_time, part_time, contract, internship
	ExperienceLevel string       `json:"experience_level,omitempty"` // entry, mid, senior, lead
	ExperienceYears int          `json:"experience_years,omitempty" validate:"gte=0,lte=60"`
	EducationLevel  string       `json:"education_level,omitempty"`
	Benefits        []string     `json:"benefits,omitempty"`
	PostedDate      string       `json:"posted_date,omitempty"`
	RemoteWork      bool         `json:"remote_work"`

	// Set on degraded records only
	ParseError       bool   `json:"parse_error,omitempty"`
	ParseErrorReason string `json:"parse_error_reason,omitempty"`
	RawText          string `json:"raw_text,omitempty"`
}

// SalaryRange is a compensation band as stated by the posting.
type SalaryRange struct {
	Min      float64 `json:"min,omitempty" validate:"gte=0"`
	Max      float64 `json:"max,omitempty" validate:"gte=0"`
	Currency string  `json:"currency,omitempty"`
	Period   string  `json:"period,omitempty"` // year, month, hour
}

// Validate validates the ParsedJobDescription using the validator.
func (j *ParsedJobDescription) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}

// Summary returns the echoed fields carried on a JobMatch.
func (j *ParsedJobDescription) Summary() JobSummary {
	return JobSummary{
		Title:      j.Title,
		Company:    j.Company,
		Location:   j.Location,
		RemoteWork: j.RemoteWork,
		SourceRef:  j.SourceRef,
	}
}
