package ranking

import (
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/parsing"
	"github.com/jonathan/jobscout/internal/types"
)

// DeriveCriteria builds the matching criteria for a candidate. The result is
// meant for a single matching run and is not stored.
func DeriveCriteria(resume *types.ParsedResume, now time.Time) types.JobMatchingCriteria {
	criteria := types.JobMatchingCriteria{
		RequiredSkills:  parsing.NormalizeSkills(resume.Skills),
		ExperienceYears: min(60, CandidateYears(resume.Experience, now)),
		EducationLevel:  HighestEducationLevel(resume.Education),
	}

	if loc := strings.TrimSpace(resume.ContactInfo.Location); loc != "" {
		criteria.Locations = []string{loc}
		if strings.Contains(strings.ToLower(loc), "remote") {
			criteria.RemotePreference = true
		}
	}
	return criteria
}

// describeCriteria renders criteria as prompt text.
func describeCriteria(c *types.JobMatchingCriteria) string {
	if c == nil {
		return "None stated"
	}
	var lines []string
	if len(c.RequiredSkills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(c.RequiredSkills, ", "))
	}
	if len(c.PreferredSkills) > 0 {
		lines = append(lines, "Would like to use: "+strings.Join(c.PreferredSkills, ", "))
	}
	if c.ExperienceYears > 0 {
		lines = append(lines, "Years of experience: "+itoa(c.ExperienceYears))
	}
	if c.EducationLevel != "" {
		lines = append(lines, "Education: "+c.EducationLevel)
	}
	if len(c.JobTypes) > 0 {
		lines = append(lines, "Job types: "+strings.Join(c.JobTypes, ", "))
	}
	if len(c.Locations) > 0 {
		lines = append(lines, "Locations: "+strings.Join(c.Locations, "; "))
	}
	if c.SalaryMin > 0 {
		lines = append(lines, "Minimum salary: "+itoa(c.SalaryMin))
	}
	if c.RemotePreference {
		lines = append(lines, "Prefers remote work")
	}
	if len(lines) == 0 {
		return "None stated"
	}
	return strings.Join(lines, "\n")
}
