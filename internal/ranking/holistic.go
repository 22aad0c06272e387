package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/llm"
	"github.com/jonathan/jobscout/internal/prompts"
	"github.com/jonathan/jobscout/internal/schemas"
	"github.com/jonathan/jobscout/internal/types"
)

// maxJobTextChars caps the description sent per job in a batch prompt.
const maxJobTextChars = 1500

// HolisticMatcher scores a whole batch of jobs with a single LLM call.
type HolisticMatcher struct {
	completer    llm.Completer
	systemPrompt string
	logger       *zap.Logger
}

// NewHolisticMatcher creates a HolisticMatcher.
func NewHolisticMatcher(completer llm.Completer, logger *zap.Logger) *HolisticMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolisticMatcher{
		completer:    completer,
		systemPrompt: prompts.MustGet("matching.json", "match-system"),
		logger:       logger,
	}
}

// MatchBatch implements Matcher. Entries without a usable job ID, score or
// reason list are dropped one at a time; only an unreadable response as a
// whole is an error.
func (h *HolisticMatcher) MatchBatch(ctx context.Context, profile *types.ParsedResume, jobs []*types.ParsedJobDescription, criteria *types.JobMatchingCriteria) ([]types.JobMatch, error) {
	if profile == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}
	byID := make(map[string]*types.ParsedJobDescription, len(jobs))
	for _, job := range jobs {
		if job != nil && job.ID != "" {
			byID[job.ID] = job
		}
	}
	if len(byID) == 0 {
		return []types.JobMatch{}, nil
	}

	prompt, err := prompts.Render("matching.json", "match-batch", map[string]string{
		"Candidate": describeProfile(profile),
		"Criteria":  describeCriteria(criteria),
		"Jobs":      describeJobs(jobs),
	})
	if err != nil {
		return nil, err
	}

	response, err := h.completer.Complete(ctx, prompt, h.systemPrompt, llm.WithTier(llm.TierStandard), llm.WithJSON())
	if err != nil {
		return nil, fmt.Errorf("holistic match call failed: %w", err)
	}

	entries, err := decodeEntries(llm.CleanJSONBlock(response))
	if err != nil {
		return nil, err
	}

	matches := make([]types.JobMatch, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, raw := range entries {
		match, score, reason := coerceMatch(raw)
		if reason == "" {
			if job, ok := byID[match.JobID]; !ok {
				reason = "unknown job_id " + strconv.Quote(match.JobID)
			} else if seen[match.JobID] {
				reason = "duplicate job_id " + strconv.Quote(match.JobID)
			} else {
				match.JobSummary = job.Summary()
			}
		}
		if reason != "" {
			h.logger.Warn("discarding match entry", zap.Int("index", i), zap.String("reason", reason))
			continue
		}
		seen[match.JobID] = true
		if score >= MinMatchScore {
			matches = append(matches, match)
		}
	}
	sortMatches(matches)

	h.logger.Debug("holistic batch scored",
		zap.Int("jobs", len(byID)),
		zap.Int("entries", len(entries)),
		zap.Int("kept", len(matches)))
	return matches, nil
}

// decodeEntries accepts a bare array or an object wrapping one under "matches".
func decodeEntries(response string) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(response), &entries); err == nil {
		return entries, nil
	}
	var wrapped struct {
		Matches []json.RawMessage `json:"matches"`
	}
	if err := json.Unmarshal([]byte(response), &wrapped); err != nil || wrapped.Matches == nil {
		return nil, fmt.Errorf("holistic match response is not a JSON array")
	}
	return wrapped.Matches, nil
}

// coerceMatch reads one entry, tolerating numeric strings for scores and a
// single string for reasons. The unrounded score is returned for threshold
// checks. A non-empty reason means the entry is unusable.
func coerceMatch(raw json.RawMessage) (types.JobMatch, float64, string) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.JobMatch{}, 0, "entry is not an object"
	}

	switch v := fields["match_score"].(type) {
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			fields["match_score"] = f
		}
	}
	switch v := fields["match_reasons"].(type) {
	case string:
		fields["match_reasons"] = []any{v}
	}
	if id, ok := fields["job_id"].(float64); ok {
		fields["job_id"] = strconv.FormatFloat(id, 'f', -1, 64)
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return types.JobMatch{}, 0, "entry cannot be re-encoded"
	}
	if err := schemas.Validate(schemas.JobMatch, string(normalized)); err != nil {
		return types.JobMatch{}, 0, strings.TrimSpace(err.Error())
	}

	var entry struct {
		JobID         string   `json:"job_id"`
		MatchScore    float64  `json:"match_score"`
		MatchReasons  []string `json:"match_reasons"`
		MissingSkills []string `json:"missing_skills"`
	}
	if err := json.Unmarshal(normalized, &entry); err != nil {
		return types.JobMatch{}, 0, err.Error()
	}

	match := types.JobMatch{
		JobID:         entry.JobID,
		MatchScore:    int(math.Round(entry.MatchScore)),
		MatchReasons:  entry.MatchReasons,
		MissingSkills: nonNil(entry.MissingSkills),
	}
	if err := match.Validate(); err != nil {
		return types.JobMatch{}, 0, err.Error()
	}
	return match, entry.MatchScore, ""
}

// describeProfile renders a candidate as prompt text.
func describeProfile(p *types.ParsedResume) string {
	var sb strings.Builder
	if p.Summary != "" {
		sb.WriteString("Summary: " + p.Summary + "\n")
	}
	if len(p.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(p.Skills, ", ") + "\n")
	}
	if p.ContactInfo.Location != "" {
		sb.WriteString("Location: " + p.ContactInfo.Location + "\n")
	}
	for _, exp := range p.Experience {
		end := exp.EndDate
		if end == "" {
			end = "?"
		}
		sb.WriteString(fmt.Sprintf("- %s at %s (%s to %s)\n", exp.Title, exp.Company, exp.StartDate, end))
	}
	for _, edu := range p.Education {
		sb.WriteString(fmt.Sprintf("- %s %s, %s\n", edu.Degree, edu.Field, edu.Institution))
	}
	if p.ParseError && p.RawText != "" {
		sb.WriteString(truncate(p.RawText, 3000) + "\n")
	}
	return strings.TrimSpace(sb.String())
}

// describeJobs renders jobs as prompt text, each headed by its ID.
func describeJobs(jobs []*types.ParsedJobDescription) string {
	var sb strings.Builder
	for _, job := range jobs {
		if job == nil || job.ID == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("[%s] %s", job.ID, job.Title))
		if job.Company != "" {
			sb.WriteString(" at " + job.Company)
		}
		if job.Location != "" {
			sb.WriteString(" (" + job.Location + ")")
		}
		if job.RemoteWork {
			sb.WriteString(" [remote]")
		}
		sb.WriteString("\n")
		if len(job.Skills) > 0 {
			sb.WriteString("Required skills: " + strings.Join(job.Skills, ", ") + "\n")
		}
		if len(job.PreferredSkills) > 0 {
			sb.WriteString("Preferred skills: " + strings.Join(job.PreferredSkills, ", ") + "\n")
		}
		if job.ExperienceYears > 0 {
			sb.WriteString("Years required: " + itoa(job.ExperienceYears) + "\n")
		}
		if job.EducationLevel != "" {
			sb.WriteString("Education: " + job.EducationLevel + "\n")
		}
		desc := job.Description
		if job.ParseError {
			desc = job.RawText
		}
		if desc != "" {
			sb.WriteString(truncate(desc, maxJobTextChars) + "\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// truncate truncates text to maxLen runes
func truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen]) + "..."
}
