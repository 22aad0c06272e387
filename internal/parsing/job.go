package parsing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/llm"
	"github.com/jonathan/jobscout/internal/schemas"
	"github.com/jonathan/jobscout/internal/types"
)

var jobSchema = llm.ExtractionSchema{
	Name: "JobDescription",
	Fields: []llm.SchemaField{
		{Name: "title", Type: "string", Description: "job title", Required: true},
		{Name: "company", Type: "string", Description: "hiring company"},
		{Name: "location", Type: "string", Description: "office location or Remote"},
		{Name: "description", Type: "string", Description: "one paragraph summary of the role"},
		{Name: "requirements", Type: `["string"]`, Description: "required qualifications, one per line"},
		{Name: "nice_to_have", Type: `["string"]`, Description: "preferred qualifications"},
		{Name: "skills", Type: `["string"]`, Description: "required technical skills"},
		{Name: "preferred_skills", Type: `["string"]`, Description: "preferred technical skills"},
		{Name: "salary_range", Type: `{"min": number, "max": number, "currency": string, "period": string}`},
		{Name: "employment_type", Type: "string", Description: "full_time, part_time, contract, internship or temporary"},
		{Name: "experience_level", Type: "string", Description: "entry, mid, senior or lead"},
		{Name: "experience_years", Type: "number", Description: "minimum years required"},
		{Name: "education_level", Type: "string", Description: "high_school, associate, bachelor, master or doctorate"},
		{Name: "benefits", Type: `["string"]`},
		{Name: "posted_date", Type: "string"},
		{Name: "remote_work", Type: "boolean"},
	},
}

// ExtractJob extracts a ParsedJobDescription from cleaned posting text.
// sourceRef records where the text came from (URL or file path).
func (e *Extractor) ExtractJob(ctx context.Context, text, sourceRef string) *types.ParsedJobDescription {
	var job types.ParsedJobDescription
	err := e.extract(ctx, "extract-job-profile", schemas.JobDescription, jobSchema, text, &job)
	if err == nil {
		postProcessJob(&job)
		job.ID = e.newID()
		job.SourceRef = sourceRef
		if verr := job.Validate(); verr != nil {
			err = &ValidationError{Message: "record failed validation", Cause: verr}
		}
	}
	if err != nil {
		e.logger.Warn("job extraction degraded",
			zap.String("source", sourceRef),
			zap.Int("text_length", len(text)),
			zap.Error(err))
		return &types.ParsedJobDescription{
			ID:               e.newID(),
			SourceRef:        sourceRef,
			ParseError:       true,
			ParseErrorReason: err.Error(),
			RawText:          text,
		}
	}

	e.logger.Debug("job extracted",
		zap.String("source", sourceRef),
		zap.String("title", job.Title),
		zap.Int("skills", len(job.Skills)))
	return &job
}

// postProcessJob normalizes skill names and list fields
func postProcessJob(job *types.ParsedJobDescription) {
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	job.Location = strings.TrimSpace(job.Location)
	job.Skills = NormalizeSkills(job.Skills)
	job.PreferredSkills = NormalizeSkills(job.PreferredSkills)
	job.Requirements = normalizeLines(job.Requirements)
	job.NiceToHave = normalizeLines(job.NiceToHave)
	job.Benefits = normalizeLines(job.Benefits)
	job.EducationLevel = strings.ToLower(strings.TrimSpace(job.EducationLevel))
	job.EmploymentType = strings.ToLower(strings.TrimSpace(job.EmploymentType))
	if !job.RemoteWork && strings.Contains(strings.ToLower(job.Location), "remote") {
		job.RemoteWork = true
	}

	// A preferred skill that is also required counts as required only
	required := make(map[string]bool, len(job.Skills))
	for _, s := range job.Skills {
		required[strings.ToLower(s)] = true
	}
	preferred := job.PreferredSkills[:0]
	for _, s := range job.PreferredSkills {
		if !required[strings.ToLower(s)] {
			preferred = append(preferred, s)
		}
	}
	job.PreferredSkills = preferred
}
