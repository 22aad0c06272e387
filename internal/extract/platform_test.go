package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://greenhouse.io/jobs/456", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://workday.com/jobs", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/1234", PlatformAshby},
		{"https://example.com/careers/123", PlatformUnknown},
		{"https://notgreenhouse.io.evil.com/jobs", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestContentSelectors_FallsBackToGenericList(t *testing.T) {
	generic := JobPostingSelectors()
	assert.Equal(t, generic, ContentSelectors(PlatformUnknown))

	gh := ContentSelectors(PlatformGreenhouse)
	assert.Equal(t, ".job__description.body", gh[0])
	assert.Contains(t, gh, "main")
}

func TestNoiseSelectors_PlatformSpecific(t *testing.T) {
	common := NoiseSelectors(PlatformUnknown)
	assert.Contains(t, common, "form")
	assert.Contains(t, common, ".cookie-banner")

	assert.Contains(t, NoiseSelectors(PlatformGreenhouse), "#usa_self_id_section")
	assert.Contains(t, NoiseSelectors(PlatformLever), ".posting-apply")
	assert.Contains(t, NoiseSelectors(PlatformWorkday), "[data-automation-id='applyButton']")
	assert.Contains(t, NoiseSelectors(PlatformAshby), ".ashby-application-form-container")
	assert.Len(t, NoiseSelectors(PlatformUnknown), len(common))
}
