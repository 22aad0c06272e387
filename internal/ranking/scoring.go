// Package ranking scores a candidate profile against parsed job postings.
package ranking

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/parsing"
	"github.com/jonathan/jobscout/internal/types"
)

// Weights for the sub-scores
const (
	skillsWeight     = 0.4
	experienceWeight = 0.3
	educationWeight  = 0.2
	locationWeight   = 0.1
)

// Result is the deterministic score for one (candidate, job) pair.
type Result struct {
	Score         int                  `json:"score"`
	Breakdown     types.ScoreBreakdown `json:"breakdown"`
	MatchedSkills []string             `json:"matched_skills,omitempty"`
	MissingSkills []string             `json:"missing_skills,omitempty"`
	// CandidateYears is the experience figure the experience sub-score used.
	CandidateYears int `json:"candidate_years"`
	// Degraded is set when the job record failed to parse and was not scored.
	Degraded bool `json:"degraded,omitempty"`
}

// Score computes the weighted compatibility score of profile against job.
// now fixes the current year for experience arithmetic, so identical inputs
// always produce an identical result. A degraded job record has no
// requirements to compare against and scores 0.
func Score(profile *types.ParsedResume, job *types.ParsedJobDescription, now time.Time) Result {
	if job.ParseError {
		return Result{Degraded: true}
	}
	skills, matched, missing := skillsScore(profile.Skills, job.Skills, job.PreferredSkills)
	years := CandidateYears(profile.Experience, now)
	experience := experienceScore(years, job.ExperienceYears)
	education := educationScore(HighestEducationLevel(profile.Education), job.EducationLevel)
	location := locationScore(profile.ContactInfo.Location, job.Location, job.RemoteWork)

	total := skillsWeight*skills +
		experienceWeight*experience +
		educationWeight*education +
		locationWeight*location

	return Result{
		Score: clampScore(int(math.Round(total))),
		Breakdown: types.ScoreBreakdown{
			Skills:     int(math.Round(skills)),
			Experience: int(math.Round(experience)),
			Education:  int(math.Round(education)),
			Location:   int(math.Round(location)),
		},
		MatchedSkills:  matched,
		MissingSkills:  missing,
		CandidateYears: years,
	}
}

// skillsScore returns required coverage x 80 plus preferred coverage x 20,
// along with the matched and missing required skills.
func skillsScore(candidate, required, preferred []string) (float64, []string, []string) {
	have := make(map[string]bool, len(candidate))
	for _, s := range candidate {
		if key := parsing.SkillKey(s); key != "" {
			have[key] = true
		}
	}

	required = parsing.NormalizeSkills(required)
	preferred = parsing.NormalizeSkills(preferred)
	if len(required) == 0 {
		return 100, nil, nil
	}

	var matched, missing []string
	for _, s := range required {
		if have[strings.ToLower(s)] {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	score := float64(len(matched)) / float64(len(required)) * 80

	if len(preferred) == 0 {
		return score + 20, matched, missing
	}
	hits := 0
	for _, s := range preferred {
		if have[strings.ToLower(s)] {
			hits++
		}
	}
	return score + float64(hits)/float64(len(preferred))*20, matched, missing
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// CandidateYears is the current year minus the start year of the earliest
// listed role. Roles without a parseable start date are skipped; with none
// left the result is 0.
func CandidateYears(experience []types.Experience, now time.Time) int {
	earliest := 0
	for _, exp := range experience {
		m := yearPattern.FindString(exp.StartDate)
		if m == "" {
			continue
		}
		year, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if earliest == 0 || year < earliest {
			earliest = year
		}
	}
	if earliest == 0 {
		return 0
	}
	return max(0, now.Year()-earliest)
}

// experienceScore compares candidate years with the years a job requires.
func experienceScore(years, required int) float64 {
	if required <= 0 {
		return 100
	}
	y, r := float64(years), float64(required)
	switch {
	case y >= r:
		return 100
	case y >= 0.8*r:
		return 80
	case y >= 0.6*r:
		return 60
	default:
		return max(0, 40-10*(r-y))
	}
}

// locationScore never returns 0: an unmatched location is a soft penalty.
func locationScore(candidateLocation, jobLocation string, remote bool) float64 {
	job := strings.ToLower(strings.TrimSpace(jobLocation))
	if remote || strings.Contains(job, "remote") {
		return 100
	}
	cand := strings.ToLower(strings.TrimSpace(candidateLocation))
	if cand == "" || job == "" {
		return 50
	}
	if strings.Contains(job, cand) {
		return 100
	}

	jobTokens := make(map[string]bool)
	for _, t := range locationTokens(job) {
		jobTokens[t] = true
	}
	for _, t := range locationTokens(cand) {
		if jobTokens[t] {
			return 80
		}
	}
	return 50
}

// locationTokens splits "Austin, TX, USA" into the parts after the first
// comma, which name the state or country.
func locationTokens(loc string) []string {
	parts := strings.Split(loc, ",")
	if len(parts) < 2 {
		return nil
	}
	var tokens []string
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func clampScore(score int) int {
	return min(100, max(0, score))
}
