package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobscout/internal/types"
)

func TestNormalizeEducationLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bachelor", LevelBachelor},
		{"B.S.", LevelBachelor},
		{"BSc Computer Science", LevelBachelor},
		{"Bachelor of Arts", LevelBachelor},
		{"Master of Science", LevelMaster},
		{"MBA", LevelMaster},
		{"M.S.", LevelMaster},
		{"PhD", LevelDoctorate},
		{"Ph.D. in Physics", LevelDoctorate},
		{"Associate of Applied Science", LevelAssociate},
		{"High School Diploma", LevelHighSchool},
		{"doctorate", LevelDoctorate},
		{"", ""},
		{"Bootcamp certificate", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEducationLevel(tt.in), tt.in)
	}
}

func TestHighestEducationLevel(t *testing.T) {
	edu := []types.Education{{Degree: "B.S."}, {Degree: "Master of Engineering"}, {Degree: "Certificate"}}
	assert.Equal(t, LevelMaster, HighestEducationLevel(edu))
	assert.Equal(t, "", HighestEducationLevel(nil))
}

func TestEducationScore(t *testing.T) {
	tests := []struct {
		candidate, required string
		want                float64
	}{
		{LevelMaster, "", 100},
		{LevelMaster, "unclear", 100},
		{LevelMaster, LevelBachelor, 100},
		{LevelBachelor, LevelBachelor, 100},
		{LevelBachelor, LevelMaster, 80},
		{LevelBachelor, LevelDoctorate, 20},
		{LevelHighSchool, LevelDoctorate, 0},
		{"", LevelAssociate, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, educationScore(tt.candidate, tt.required), "%s vs %s", tt.candidate, tt.required)
	}
}
