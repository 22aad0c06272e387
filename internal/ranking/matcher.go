package ranking

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobscout/internal/types"
)

// MinMatchScore is the lowest score a batch result keeps.
const MinMatchScore = 60

// DefaultConcurrency bounds parallel deterministic scoring.
const DefaultConcurrency = 8

// Matcher scores one candidate against many jobs. Results hold only matches
// at or above MinMatchScore, sorted by descending score.
type Matcher interface {
	MatchBatch(ctx context.Context, profile *types.ParsedResume, jobs []*types.ParsedJobDescription, criteria *types.JobMatchingCriteria) ([]types.JobMatch, error)
}

// DeterministicMatcher runs Score for every job in parallel.
type DeterministicMatcher struct {
	Now         func() time.Time
	Concurrency int
	Logger      *zap.Logger
}

// NewDeterministicMatcher creates a DeterministicMatcher using the wall clock.
func NewDeterministicMatcher(logger *zap.Logger) *DeterministicMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeterministicMatcher{Now: time.Now, Concurrency: DefaultConcurrency, Logger: logger}
}

// MatchBatch implements Matcher. Criteria are not used by the
// deterministic score, which reads the profile directly.
func (m *DeterministicMatcher) MatchBatch(ctx context.Context, profile *types.ParsedResume, jobs []*types.ParsedJobDescription, _ *types.JobMatchingCriteria) ([]types.JobMatch, error) {
	if profile == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}

	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	limit := m.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	scored := make([]*types.JobMatch, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	var degraded []string
	for i, job := range jobs {
		if job == nil {
			continue
		}
		if job.ParseError {
			degraded = append(degraded, job.ID)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := Score(profile, job, now)
			breakdown := result.Breakdown
			scored[i] = &types.JobMatch{
				JobID:         job.ID,
				MatchScore:    result.Score,
				MatchReasons:  generateReasons(result, job),
				MissingSkills: nonNil(result.MissingSkills),
				Breakdown:     &breakdown,
				JobSummary:    job.Summary(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]types.JobMatch, 0, len(jobs))
	for _, match := range scored {
		if match != nil && match.MatchScore >= MinMatchScore {
			matches = append(matches, *match)
		}
	}
	sortMatches(matches)

	if logger := m.Logger; logger != nil {
		if len(degraded) > 0 {
			logger.Warn("skipped unparsed job records", zap.Strings("job_ids", degraded))
		}
		logger.Debug("deterministic batch scored",
			zap.Int("jobs", len(jobs)),
			zap.Int("kept", len(matches)))
	}
	return matches, nil
}

// sortMatches orders by descending score, then job ID for stable output.
func sortMatches(matches []types.JobMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].JobID < matches[j].JobID
	})
}

// generateReasons creates a brief explanation of the score.
func generateReasons(r Result, job *types.ParsedJobDescription) []string {
	var reasons []string

	switch {
	case len(job.Skills) == 0:
		reasons = append(reasons, "No specific skills required")
	case r.Breakdown.Skills >= 80:
		reasons = append(reasons, fmt.Sprintf("Strong skill match (%s)", strings.Join(r.MatchedSkills, ", ")))
	case len(r.MatchedSkills) > 0:
		reasons = append(reasons, fmt.Sprintf("Partial skill match (%s)", strings.Join(r.MatchedSkills, ", ")))
	default:
		reasons = append(reasons, "No required skills matched")
	}

	switch {
	case job.ExperienceYears <= 0:
	case r.Breakdown.Experience == 100:
		reasons = append(reasons, fmt.Sprintf("%d years of experience meets the %d required", r.CandidateYears, job.ExperienceYears))
	default:
		reasons = append(reasons, fmt.Sprintf("%d years of experience against %d required", r.CandidateYears, job.ExperienceYears))
	}

	if job.EducationLevel != "" {
		if r.Breakdown.Education == 100 {
			reasons = append(reasons, "Meets the education requirement")
		} else {
			reasons = append(reasons, "Below the required education level ("+job.EducationLevel+")")
		}
	}

	switch {
	case r.Breakdown.Location == 100:
		reasons = append(reasons, "Location compatible")
	case r.Breakdown.Location == 80:
		reasons = append(reasons, "Same region as the job location")
	}

	return reasons
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
