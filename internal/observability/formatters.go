// Package observability provides the process logger and formatted output for
// human-readable CLI summaries.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobscout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes with a trailing ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintJobDescription outputs a summary of a parsed job posting.
func (p *Printer) PrintJobDescription(job *types.ParsedJobDescription) {
	if job == nil {
		return
	}

	var sb strings.Builder
	if job.ParseError {
		fmt.Fprintf(&sb, "Parse failed: %s\n", job.ParseErrorReason)
		fmt.Fprintf(&sb, "Raw text kept: %d chars\n", len([]rune(job.RawText)))
		p.printBox("JOB DESCRIPTION (DEGRADED)", strings.TrimSuffix(sb.String(), "\n"))
		return
	}

	fmt.Fprintf(&sb, "Title:    %s\n", job.Title)
	fmt.Fprintf(&sb, "Company:  %s\n", job.Company)
	location := job.Location
	if job.RemoteWork {
		location = strings.TrimSpace(location + " (remote)")
	}
	fmt.Fprintf(&sb, "Location: %s\n", location)
	if job.ExperienceYears > 0 {
		fmt.Fprintf(&sb, "Experience: %d+ years\n", job.ExperienceYears)
	}
	if job.EducationLevel != "" {
		fmt.Fprintf(&sb, "Education:  %s\n", job.EducationLevel)
	}
	sb.WriteString("\n")

	writeList(&sb, "Required skills", job.Skills, maxItemsToShow)
	writeList(&sb, "Preferred skills", job.PreferredSkills, 3)

	p.printBox("PARSED JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a summary of a parsed resume.
func (p *Printer) PrintResume(resume *types.ParsedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	if resume.ParseError {
		fmt.Fprintf(&sb, "Parse failed: %s\n", resume.ParseErrorReason)
		p.printBox("RESUME (DEGRADED)", strings.TrimSuffix(sb.String(), "\n"))
		return
	}

	fmt.Fprintf(&sb, "Name:     %s\n", resume.ContactInfo.Name)
	if resume.ContactInfo.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", resume.ContactInfo.Location)
	}
	sb.WriteString("\n")
	writeList(&sb, "Skills", resume.Skills, maxItemsToShow)

	roles := make([]string, 0, len(resume.Experience))
	for _, e := range resume.Experience {
		role := e.Title
		if e.Company != "" {
			role += " @ " + e.Company
		}
		if e.StartDate != "" {
			role += fmt.Sprintf(" (%s - %s)", e.StartDate, e.EndDate)
		}
		roles = append(roles, role)
	}
	writeList(&sb, "Experience", roles, 3)

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatches outputs ranked match results.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMatches(matches []types.JobMatch) {
	if len(matches) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO JOBS SCORED 60 OR HIGHER")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d matching jobs:\n\n", len(matches))
	for i, m := range matches {
		name := m.JobID
		if m.Title != "" {
			name = m.Title
			if m.Company != "" {
				name += " @ " + m.Company
			}
		}
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, name)
		fmt.Fprintf(&sb, "    Score: %d", m.MatchScore)
		if b := m.Breakdown; b != nil {
			fmt.Fprintf(&sb, " (skills %d, exp %d, edu %d, loc %d)", b.Skills, b.Experience, b.Education, b.Location)
		}
		sb.WriteString("\n")
		if len(m.MatchReasons) > 0 {
			fmt.Fprintf(&sb, "    %s\n", m.MatchReasons[0])
		}
		if len(m.MissingSkills) > 0 {
			fmt.Fprintf(&sb, "    Missing: %s\n", strings.Join(m.MissingSkills, ", "))
		}
		if i < len(matches)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("JOB MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiagnosis outputs why extraction failed and how to recover by hand.
func (p *Printer) PrintDiagnosis(d *types.ExtractionDiagnosis) {
	if d == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cause: %s\n\n", d.Cause)
	sb.WriteString(wrap(d.RecommendedAction, boxWidth-4))
	sb.WriteString("\n")
	if len(d.ManualSteps) > 0 {
		sb.WriteString("\nManual steps:\n")
		for i, step := range d.ManualSteps {
			sb.WriteString(wrap(fmt.Sprintf("%d. %s", i+1, step), boxWidth-4))
			sb.WriteString("\n")
		}
	}
	if len(d.TechnicalDetails) > 0 {
		sb.WriteString("\n")
		for _, detail := range d.TechnicalDetails {
			fmt.Fprintf(&sb, "  %s\n", detail)
		}
	}

	p.printBox("EXTRACTION FAILED", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap breaks s into lines no wider than width, on word boundaries.
func wrap(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
