package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	d := Default()
	assert.Equal(t, d.Cache, cfg.Cache)
	assert.Equal(t, d.Extraction, cfg.Extraction)
	assert.Equal(t, 500, cfg.Extraction.MinVisibleChars)
	assert.Equal(t, 15000, cfg.Extraction.AdvancedParseChars)
	assert.True(t, cfg.Render.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
verbose: true
cache:
  backend: redis
  redis-url: redis://localhost:6379/0
  max-age: 2h
  capacity: 50
extraction:
  min-visible-chars: 800
render:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "jobscout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.Cache.MaxAge)
	assert.Equal(t, 50, cfg.Cache.Capacity)
	assert.Equal(t, 800, cfg.Extraction.MinVisibleChars)
	assert.Equal(t, 300, cfg.Extraction.MinSiteChars, "unset keys keep defaults")
	assert.False(t, cfg.Render.Enabled)
}

func TestLoad_JSONFile(t *testing.T) {
	content := `{"fetch": {"timeout": "10s", "max-retries": 4}}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 4, cfg.Fetch.MaxRetries)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JOBSCOUT_CACHE_CAPACITY", "7")
	t.Setenv("JOBSCOUT_EXTRACTION_MIN_SITE_CHARS", "120")
	t.Setenv("JOBSCOUT_JSON_LOGS", "true")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Cache.Capacity)
	assert.Equal(t, 120, cfg.Extraction.MinSiteChars)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{ invalid json }`), 0644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Cache.Backend = "memcached" }, wantErr: "Backend"},
		{name: "redis without url", mutate: func(c *Config) { c.Cache.Backend = BackendRedis }, wantErr: "RedisURL"},
		{name: "postgres without url", mutate: func(c *Config) { c.Cache.Backend = BackendPostgres }, wantErr: "DatabaseURL"},
		{
			name: "postgres with url",
			mutate: func(c *Config) {
				c.Cache.Backend = BackendPostgres
				c.Cache.DatabaseURL = "postgres://localhost/jobscout"
			},
		},
		{name: "zero capacity", mutate: func(c *Config) { c.Cache.Capacity = 0 }, wantErr: "Capacity"},
		{name: "negative threshold", mutate: func(c *Config) { c.Extraction.MinVisibleChars = -1 }, wantErr: "MinVisibleChars"},
		{name: "too many retries", mutate: func(c *Config) { c.Fetch.MaxRetries = 11 }, wantErr: "MaxRetries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Cache:      CacheConfig{Backend: BackendRedis, RedisURL: "redis://cache:6379"},
		Extraction: ExtractionConfig{MinVisibleChars: 200},
	}

	merged := partial.MergeWithDefaults(Default())

	assert.Equal(t, BackendRedis, merged.Cache.Backend)
	assert.Equal(t, "redis://cache:6379", merged.Cache.RedisURL)
	assert.Equal(t, 200, merged.Extraction.MinVisibleChars)
	assert.Equal(t, 15000, merged.Extraction.AdvancedParseChars)
	assert.Equal(t, 100, merged.Cache.Capacity)
	assert.Equal(t, "gemini-2.5-flash", merged.LLM.StandardModel)
	assert.NoError(t, merged.Validate())
}
