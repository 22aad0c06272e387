package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata records where extracted text came from and how it was obtained
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Timestamp string `json:"timestamp"`          // RFC3339 format
	Hash      string `json:"hash"`               // SHA256 hex digest of the cleaned text
	Platform  string `json:"platform,omitempty"` // Detected job board platform
	Strategy  string `json:"strategy,omitempty"` // Extraction strategy that succeeded
	FromCache bool   `json:"from_cache,omitempty"`
	Title     string `json:"title,omitempty"`
	Company   string `json:"company,omitempty"`
	Chars     int    `json:"chars"`
}

// NewMetadata creates a Metadata for content stamped with now
func NewMetadata(content string, url string, now time.Time) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: now.UTC().Format(time.RFC3339),
		Hash:      ComputeHash(content),
		Chars:     len([]rune(content)),
	}
}

// ComputeHash computes SHA256 hash of content and returns hex string
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
