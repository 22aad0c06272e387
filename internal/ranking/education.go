package ranking

import (
	"regexp"
	"strings"

	"github.com/jonathan/jobscout/internal/types"
)

// Education levels, lowest to highest.
const (
	LevelHighSchool = "high_school"
	LevelAssociate  = "associate"
	LevelBachelor   = "bachelor"
	LevelMaster     = "master"
	LevelDoctorate  = "doctorate"
)

// degreeRank maps degree levels to their position on the ladder. Zero means unknown.
var degreeRank = map[string]int{
	LevelHighSchool: 1,
	LevelAssociate:  2,
	LevelBachelor:   3,
	LevelMaster:     4,
	LevelDoctorate:  5,
}

// degreePatterns recognize free-text degree names, checked highest level first
var degreePatterns = []struct {
	level   string
	pattern *regexp.Regexp
}{
	{LevelDoctorate, regexp.MustCompile(`(?i)\b(ph\.?\s?d|doctor(ate)?|d\.?phil|ed\.?d)\b`)},
	{LevelMaster, regexp.MustCompile(`(?i)\b(master'?s?|m\.?s\.?c?|m\.?a\.?|mba|m\.?eng|meng)\b`)},
	{LevelBachelor, regexp.MustCompile(`(?i)\b(bachelor'?s?|b\.?s\.?c?|b\.?a\.?|b\.?eng|beng|b\.?tech|undergraduate)\b`)},
	{LevelAssociate, regexp.MustCompile(`(?i)\b(associate'?s?|a\.?a\.?s?|a\.?s\.?)\b`)},
	{LevelHighSchool, regexp.MustCompile(`(?i)\b(high school|ged|diploma|secondary)\b`)},
}

// NormalizeEducationLevel maps a ladder name or a free-text degree
// ("B.S.", "Master of Science", "PhD") to a ladder level, or "" when unknown.
func NormalizeEducationLevel(degree string) string {
	d := strings.ToLower(strings.TrimSpace(degree))
	if d == "" {
		return ""
	}
	if _, ok := degreeRank[d]; ok {
		return d
	}
	switch d {
	case "phd", "doctoral":
		return LevelDoctorate
	case "masters":
		return LevelMaster
	case "bachelors":
		return LevelBachelor
	}
	for _, p := range degreePatterns {
		if p.pattern.MatchString(d) {
			return p.level
		}
	}
	return ""
}

// HighestEducationLevel returns the highest ladder level across a candidate's education.
func HighestEducationLevel(education []types.Education) string {
	best, bestRank := "", 0
	for _, edu := range education {
		level := NormalizeEducationLevel(edu.Degree)
		if r := degreeRank[level]; r > bestRank {
			best, bestRank = level, r
		}
	}
	return best
}

// educationScore compares the candidate's highest level with the required one.
func educationScore(candidateLevel, requiredLevel string) float64 {
	reqRank := degreeRank[NormalizeEducationLevel(requiredLevel)]
	if reqRank == 0 {
		return 100
	}
	short := reqRank - degreeRank[candidateLevel]
	switch {
	case short <= 0:
		return 100
	case short == 1:
		return 80
	default:
		return max(0, 60-20*float64(short))
	}
}
