package parsing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/llm"
	"github.com/jonathan/jobscout/internal/schemas"
	"github.com/jonathan/jobscout/internal/types"
)

var resumeSchema = llm.ExtractionSchema{
	Name: "Resume",
	Fields: []llm.SchemaField{
		{Name: "summary", Type: "string"},
		{Name: "contact_info", Type: `{"name": string, "email": string, "phone": string, "location": string, "linkedin": string}`},
		{Name: "skills", Type: `["string"]`, Description: "technical skills", Required: true},
		{Name: "experience", Type: `[{"title": string, "company": string, "start_date": string, "end_date": string, "description": string}]`, Required: true},
		{Name: "education", Type: `[{"degree": string, "field": string, "institution": string, "graduation_year": string}]`},
	},
}

// ExtractResume extracts a ParsedResume from resume text.
func (e *Extractor) ExtractResume(ctx context.Context, text, sourceRef string) *types.ParsedResume {
	var resume types.ParsedResume
	err := e.extract(ctx, "extract-resume", schemas.Resume, resumeSchema, text, &resume)
	if err == nil {
		postProcessResume(&resume)
		resume.ID = e.newID()
		resume.SourceRef = sourceRef
		if verr := resume.Validate(); verr != nil {
			err = &ValidationError{Message: "record failed validation", Cause: verr}
		}
	}
	if err != nil {
		e.logger.Warn("resume extraction degraded",
			zap.String("source", sourceRef),
			zap.Int("text_length", len(text)),
			zap.Error(err))
		return &types.ParsedResume{
			ID:               e.newID(),
			SourceRef:        sourceRef,
			ParseError:       true,
			ParseErrorReason: err.Error(),
			RawText:          text,
		}
	}

	e.logger.Debug("resume extracted",
		zap.String("source", sourceRef),
		zap.Int("skills", len(resume.Skills)),
		zap.Int("roles", len(resume.Experience)))
	return &resume
}

// postProcessResume normalizes skills and drops contact fields that would fail validation
func postProcessResume(resume *types.ParsedResume) {
	resume.Skills = NormalizeSkills(resume.Skills)
	resume.ContactInfo.Email = strings.TrimSpace(resume.ContactInfo.Email)
	if !strings.Contains(resume.ContactInfo.Email, "@") {
		resume.ContactInfo.Email = ""
	}
	for i := range resume.Experience {
		exp := &resume.Experience[i]
		exp.StartDate = strings.TrimSpace(exp.StartDate)
		exp.EndDate = strings.TrimSpace(exp.EndDate)
		if strings.EqualFold(exp.EndDate, "present") || strings.EqualFold(exp.EndDate, "current") {
			exp.EndDate = "present"
		}
	}
}
