package sites

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupBuiltins(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		url    string
		recipe string
	}{
		{"https://acme.wd5.myworkdayjobs.com/en-US/External/job/123", "workday"},
		{"https://boards.greenhouse.io/acme/jobs/123", "greenhouse"},
		{"https://job-boards.greenhouse.io/acme/jobs/123", "greenhouse"},
		{"https://jobs.lever.co/acme/abc-123", "lever"},
		{"https://jobs.ashbyhq.com/acme/abc", "ashby"},
		{"https://careers.google.com/jobs/results/123", "google"},
		{"https://www.google.com/about/careers/applications/jobs/results/123", "google"},
		{"https://www.amazon.jobs/en/jobs/2600000/sde", "amazon"},
	}
	for _, tt := range tests {
		t.Run(tt.recipe, func(t *testing.T) {
			recipe, ok := reg.Lookup(tt.url)
			require.True(t, ok)
			assert.Equal(t, tt.recipe, recipe.Name)
		})
	}
}

func TestRegistry_LookupMisses(t *testing.T) {
	reg := DefaultRegistry()
	for _, u := range []string{
		"https://www.google.com/search?q=jobs",
		"https://example.com/careers",
		"https://notlever.co.example.com/x",
		"not a url",
	} {
		_, ok := reg.Lookup(u)
		assert.False(t, ok, u)
	}
}

func TestRegistry_RegisterTakesPrecedence(t *testing.T) {
	reg := DefaultRegistry()
	reg.Register(&Recipe{Name: "custom-lever", DomainPatterns: []string{"jobs.lever.co"}})

	recipe, ok := reg.Lookup("https://jobs.lever.co/acme/1")
	require.True(t, ok)
	assert.Equal(t, "custom-lever", recipe.Name)
	assert.Equal(t, "custom-lever", reg.Names()[0])
}

func TestRecipe_Company(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		url     string
		company string
	}{
		{"https://boards.greenhouse.io/acme-robotics/jobs/1", "Acme Robotics"},
		{"https://acme.wd1.myworkdayjobs.com/External", "Acme"},
		{"https://careers.google.com/jobs/results/1", "Google"},
		{"https://www.amazon.jobs/en/jobs/1", "Amazon"},
	}
	for _, tt := range tests {
		recipe, ok := reg.Lookup(tt.url)
		require.True(t, ok)
		u, _ := url.Parse(tt.url)
		assert.Equal(t, tt.company, recipe.Company(u), tt.url)
	}
}
