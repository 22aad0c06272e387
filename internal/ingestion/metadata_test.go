package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_ToJSONFieldNames(t *testing.T) {
	metadata := &Metadata{
		URL:       "https://example.com/job",
		Timestamp: "2024-01-01T00:00:00Z",
		Hash:      "abcd1234",
		Strategy:  "render",
		FromCache: true,
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &fields))
	assert.Equal(t, "render", fields["strategy"])
	assert.Equal(t, true, fields["from_cache"])
	assert.NotContains(t, fields, "platform")
	assert.Contains(t, string(jsonBytes), "\n  \"url\"")
}

func TestComputeHash(t *testing.T) {
	content1 := "test content"
	content2 := "different content"

	hash1 := ComputeHash(content1)
	hash2 := ComputeHash(content2)

	// Hash should be 64 hex characters (SHA256)
	assert.Len(t, hash1, 64)
	assert.Len(t, hash2, 64)

	// Different content should produce different hashes
	assert.NotEqual(t, hash1, hash2)

	// Same content should produce same hash
	hash1Again := ComputeHash(content1)
	assert.Equal(t, hash1, hash1Again)
}

func TestNewMetadata(t *testing.T) {
	content := "test content ✓"
	url := "https://example.com/job"
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))

	metadata := NewMetadata(content, url, now)

	assert.Equal(t, url, metadata.URL)
	assert.Equal(t, "2025-03-04T04:06:07Z", metadata.Timestamp)
	assert.Equal(t, ComputeHash(content), metadata.Hash)
	assert.Equal(t, 14, metadata.Chars)
}

func TestNewMetadata_EmptyURL(t *testing.T) {
	metadata := NewMetadata("test content", "", time.Now())

	assert.Empty(t, metadata.URL)
	assert.NotEmpty(t, metadata.Timestamp)
	assert.Len(t, metadata.Hash, 64)
}
