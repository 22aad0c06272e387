// Package config loads jobscout settings from an optional config file and
// JOBSCOUT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. JOBSCOUT_CACHE_BACKEND.
const EnvPrefix = "JOBSCOUT"

// Cache backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the full runtime configuration.
type Config struct {
	Cache      CacheConfig      `mapstructure:"cache"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Render     RenderConfig     `mapstructure:"render"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	LLM        LLMConfig        `mapstructure:"llm"`

	Verbose  bool `mapstructure:"verbose"`
	JSONLogs bool `mapstructure:"json-logs"`
}

// CacheConfig selects and sizes the extraction cache.
type CacheConfig struct {
	Backend         string        `mapstructure:"backend" validate:"oneof=memory redis postgres"`
	RedisURL        string        `mapstructure:"redis-url" validate:"required_if=Backend redis"`
	DatabaseURL     string        `mapstructure:"database-url" json:"-" validate:"required_if=Backend postgres"`
	MaxAge          time.Duration `mapstructure:"max-age" validate:"gt=0"`
	Capacity        int           `mapstructure:"capacity" validate:"gt=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval" validate:"gt=0"`
}

// FetchConfig tunes the HTTP fetcher.
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries int           `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	UserAgent  string        `mapstructure:"user-agent"`
}

// RenderConfig controls the headless browser fallback.
type RenderConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	ChromePath        string        `mapstructure:"chrome-path"`
	NavigationTimeout time.Duration `mapstructure:"navigation-timeout" validate:"gt=0"`
	Screenshot        bool          `mapstructure:"screenshot"`
}

// ExtractionConfig holds the escalation thresholds.
type ExtractionConfig struct {
	MinVisibleChars    int `mapstructure:"min-visible-chars" validate:"gt=0"`
	AdvancedParseChars int `mapstructure:"advanced-parse-chars" validate:"gt=0"`
	MinSiteChars       int `mapstructure:"min-site-chars" validate:"gt=0"`
}

// LLMConfig configures the model client. An empty APIKey disables every
// LLM-backed feature.
type LLMConfig struct {
	APIKey        string        `mapstructure:"api-key" json:"-"`
	LiteModel     string        `mapstructure:"lite-model"`
	StandardModel string        `mapstructure:"standard-model"`
	AdvancedModel string        `mapstructure:"advanced-model"`
	MaxRetries    int           `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	BaseDelay     time.Duration `mapstructure:"base-delay"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:         BackendMemory,
			MaxAge:          24 * time.Hour,
			Capacity:        100,
			CleanupInterval: time.Hour,
		},
		Fetch: FetchConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Render: RenderConfig{
			Enabled:           true,
			NavigationTimeout: 45 * time.Second,
		},
		Extraction: ExtractionConfig{
			MinVisibleChars:    500,
			AdvancedParseChars: 15000,
			MinSiteChars:       300,
		},
		LLM: LLMConfig{
			LiteModel:     "gemini-2.5-flash-lite",
			StandardModel: "gemini-2.5-flash",
			AdvancedModel: "gemini-2.5-pro",
			MaxRetries:    2,
			BaseDelay:     time.Second,
		},
	}
}

// Load reads path (JSON, YAML or TOML, chosen by extension) over the defaults
// and applies environment overrides. An empty path loads defaults and
// environment only. GEMINI_API_KEY is honored as well as JOBSCOUT_LLM_API_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api-key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("json-logs", d.JSONLogs)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis-url", d.Cache.RedisURL)
	v.SetDefault("cache.database-url", d.Cache.DatabaseURL)
	v.SetDefault("cache.max-age", d.Cache.MaxAge)
	v.SetDefault("cache.capacity", d.Cache.Capacity)
	v.SetDefault("cache.cleanup-interval", d.Cache.CleanupInterval)

	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.max-retries", d.Fetch.MaxRetries)
	v.SetDefault("fetch.user-agent", d.Fetch.UserAgent)

	v.SetDefault("render.enabled", d.Render.Enabled)
	v.SetDefault("render.chrome-path", d.Render.ChromePath)
	v.SetDefault("render.navigation-timeout", d.Render.NavigationTimeout)
	v.SetDefault("render.screenshot", d.Render.Screenshot)

	v.SetDefault("extraction.min-visible-chars", d.Extraction.MinVisibleChars)
	v.SetDefault("extraction.advanced-parse-chars", d.Extraction.AdvancedParseChars)
	v.SetDefault("extraction.min-site-chars", d.Extraction.MinSiteChars)

	v.SetDefault("llm.lite-model", d.LLM.LiteModel)
	v.SetDefault("llm.standard-model", d.LLM.StandardModel)
	v.SetDefault("llm.advanced-model", d.LLM.AdvancedModel)
	v.SetDefault("llm.max-retries", d.LLM.MaxRetries)
	v.SetDefault("llm.base-delay", d.LLM.BaseDelay)
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// MergeWithDefaults returns a copy of c with zero values filled from defaults.
// Bools are not merged since unset and false cannot be told apart.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Cache.Backend == "" {
		result.Cache.Backend = defaults.Cache.Backend
	}
	if result.Cache.RedisURL == "" {
		result.Cache.RedisURL = defaults.Cache.RedisURL
	}
	if result.Cache.DatabaseURL == "" {
		result.Cache.DatabaseURL = defaults.Cache.DatabaseURL
	}
	if result.Cache.MaxAge == 0 {
		result.Cache.MaxAge = defaults.Cache.MaxAge
	}
	if result.Cache.Capacity == 0 {
		result.Cache.Capacity = defaults.Cache.Capacity
	}
	if result.Cache.CleanupInterval == 0 {
		result.Cache.CleanupInterval = defaults.Cache.CleanupInterval
	}

	if result.Fetch.Timeout == 0 {
		result.Fetch.Timeout = defaults.Fetch.Timeout
	}
	if result.Fetch.UserAgent == "" {
		result.Fetch.UserAgent = defaults.Fetch.UserAgent
	}

	if result.Render.ChromePath == "" {
		result.Render.ChromePath = defaults.Render.ChromePath
	}
	if result.Render.NavigationTimeout == 0 {
		result.Render.NavigationTimeout = defaults.Render.NavigationTimeout
	}

	if result.Extraction.MinVisibleChars == 0 {
		result.Extraction.MinVisibleChars = defaults.Extraction.MinVisibleChars
	}
	if result.Extraction.AdvancedParseChars == 0 {
		result.Extraction.AdvancedParseChars = defaults.Extraction.AdvancedParseChars
	}
	if result.Extraction.MinSiteChars == 0 {
		result.Extraction.MinSiteChars = defaults.Extraction.MinSiteChars
	}

	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.LLM.LiteModel == "" {
		result.LLM.LiteModel = defaults.LLM.LiteModel
	}
	if result.LLM.StandardModel == "" {
		result.LLM.StandardModel = defaults.LLM.StandardModel
	}
	if result.LLM.AdvancedModel == "" {
		result.LLM.AdvancedModel = defaults.LLM.AdvancedModel
	}
	if result.LLM.BaseDelay == 0 {
		result.LLM.BaseDelay = defaults.LLM.BaseDelay
	}

	return result
}
