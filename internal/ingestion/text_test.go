package ingestion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"line endings", "Senior Go Engineer\r\nRemote, US\rFull time", "Senior Go Engineer\nRemote, US\nFull time"},
		{"collapses inner spaces", "Pay:   $150k   -   $180k", "Pay: $150k - $180k"},
		{"caps blank runs", "About the team\n\n\n\n\nBenefits", "About the team\n\nBenefits"},
		{"headings lose indent", "  # Requirements\n- Go\n* SQL", "# Requirements\n- Go\n* SQL"},
		{"bullet glyphs", "\u2022 Kubernetes\n\u00b7 Terraform", "- Kubernetes\n- Terraform"},
		{"indented bullet kept", "Requirements\n    - 5+ years Go", "Requirements\n    - 5+ years Go"},
		{"nbsp and zero width", "Z\u00fcrich\u00a0office\u200b", "Z\u00fcrich office"},
		{"emoji survives", "Join us \U0001F680  today", "Join us \U0001F680 today"},
		{"empty", "", ""},
		{"whitespace only", " \n\t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CleanText(got), "cleaning is idempotent")
		})
	}
}

func TestCleanText_ComplexFormatting(t *testing.T) {
	input := "# Senior Software Engineer\r\n\r\n\r\n\r\n## Responsibilities\n   - Go experience  \n* Go (5+ years)\n• Kubernetes\u00a0operators\n\u200bAbout   us"

	result := CleanText(input)

	assert.Contains(t, result, "# Senior Software Engineer\n\n## Responsibilities")
	assert.Contains(t, result, "   - Go experience\n")
	assert.Contains(t, result, "* Go (5+ years)")
	assert.Contains(t, result, "- Kubernetes operators")
	assert.Contains(t, result, "\nAbout us")
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	meta := NewMetadata("cleaned", "https://example.com/job", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	meta.Strategy = "static"

	require.NoError(t, WriteOutput(dir, "cleaned", meta))

	text, err := os.ReadFile(filepath.Join(dir, CleanedTextFile))
	require.NoError(t, err)
	assert.Equal(t, "cleaned", string(text))

	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	require.NoError(t, err)
	var decoded Metadata
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, *meta, decoded)
}

func TestWriteScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diag")
	shot := []byte{0xff, 0xd8, 0xff, 0xe0}

	path, err := WriteScreenshot(dir, shot)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ScreenshotFile), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, shot, got)

	_, err = WriteScreenshot(dir, nil)
	assert.Error(t, err)
}
