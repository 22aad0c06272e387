package types

import (
	"github.com/go-playground/validator/v10"
)

// ParsedResume is the structured candidate profile extracted from a resume document.
type ParsedResume struct {
	ID          string       `json:"id" validate:"required"`
	SourceRef   string       `json:"source_ref,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	ContactInfo ContactInfo  `json:"contact_info"`
	Skills      []string     `json:"skills,omitempty"`
	Experience  []Experience `json:"experience,omitempty" validate:"dive"`
	Education   []Education  `json:"education,omitempty" validate:"dive"`

	ParseError       bool   `json:"parse_error,omitempty"`
	ParseErrorReason string `json:"parse_error_reason,omitempty"`
	RawText          string `json:"raw_text,omitempty"`
}

// ContactInfo holds the candidate's contact details.
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Experience is a single role held by the candidate.
type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"start_date,omitempty"` // YYYY-MM or YYYY
	EndDate     string `json:"end_date,omitempty"`   // YYYY-MM, YYYY or "present"
	Description string `json:"description,omitempty"`
}

// Education is a single degree or diploma.
type Education struct {
	Degree         string `json:"degree,omitempty"`
	Field          string `json:"field,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
}

// Validate validates the ParsedResume using the validator.
func (r *ParsedResume) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
