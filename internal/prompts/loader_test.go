package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		key      string
		contains string
		errMsg   string
	}{
		{name: "job profile", file: "parsing.json", key: "extract-job-profile", contains: "No prose"},
		{name: "match system", file: "matching.json", key: "match-system", contains: "recruiter"},
		{name: "unknown file", file: "scoring.json", key: "match-batch", errMsg: "failed to read prompt file"},
		{name: "unknown key", file: "parsing.json", key: "extract-cover-letter", errMsg: "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCache()
			prompt, err := Get(tt.file, tt.key)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, prompt, tt.contains)
		})
	}
}

func TestMustGet(t *testing.T) {
	clearCache()
	assert.NotEmpty(t, MustGet("parsing.json", "extract-resume"))
	assert.Panics(t, func() { MustGet("parsing.json", "extract-salary") })
}

func TestFormat(t *testing.T) {
	tmpl := "Score {{.Candidate}} for {{.Jobs}} ({{.Unused}})"

	assert.Equal(t, "Score Ada for [job-1] SRE ({{.Unused}})",
		Format(tmpl, map[string]string{"Candidate": "Ada", "Jobs": "[job-1] SRE"}))
	assert.Equal(t, tmpl, Format(tmpl, nil))
	assert.Equal(t, "plain", Format("plain", map[string]string{"Candidate": "Ada"}))
}

func TestKeys(t *testing.T) {
	clearCache()

	names, err := keys("parsing.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"extract-job-profile", "extract-resume"}, names)

	names, err = keys("matching.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"match-batch", "match-system"}, names)

	_, err = keys("missing.json")
	assert.Error(t, err)
}

func TestGet_ReturnsCachedFile(t *testing.T) {
	clearCache()

	first, err := Get("matching.json", "match-batch")
	require.NoError(t, err)

	cacheMu.RLock()
	_, cached := cache["matching.json"]
	cacheMu.RUnlock()
	assert.True(t, cached)

	second, err := Get("matching.json", "match-batch")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_MatchBatch(t *testing.T) {
	clearCache()

	out, err := Render("matching.json", "match-batch", map[string]string{
		"Candidate": "Go developer, 6 years",
		"Criteria":  "remote only",
		"Jobs":      "[job-1] Backend Engineer",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Candidate profile:\nGo developer, 6 years")
	assert.Contains(t, out, "[job-1] Backend Engineer")
	assert.NotContains(t, out, "{{.")

	_, err = Render("matching.json", "match-single", nil)
	assert.Error(t, err)
}
