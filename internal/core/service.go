// Package core wires the acquisition pipeline, the field extractor and the
// matchers into one Service built at process start.
package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/cache"
	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/diagnose"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/ingestion"
	"github.com/jonathan/jobscout/internal/llm"
	"github.com/jonathan/jobscout/internal/parsing"
	"github.com/jonathan/jobscout/internal/pipeline"
	"github.com/jonathan/jobscout/internal/ranking"
	"github.com/jonathan/jobscout/internal/render"
	"github.com/jonathan/jobscout/internal/sites"
	"github.com/jonathan/jobscout/internal/types"
)

// ErrNoProfile is returned when scoring is requested without a candidate.
var ErrNoProfile = errors.New("candidate profile is required")

// Deps overrides collaborators that New would otherwise build from config.
// Every field is optional.
type Deps struct {
	Logger    *zap.Logger
	Store     cache.Store
	Transport http.RoundTripper
	Renderer  pipeline.PageRenderer
	Completer llm.Completer
	Documents ingestion.DocumentReader
	Registry  *sites.Registry
	Now       func() time.Time
}

// Service is the long-lived application context. All of its state is owned
// here; nothing is kept in package variables.
type Service struct {
	cfg    config.Config
	deps   Deps
	logger *zap.Logger
	now    func() time.Time

	store    cache.Store
	janitor  *cache.Janitor
	closers  []func() error
	fetcher  *fetch.Fetcher
	pipeline *pipeline.Pipeline
	docs     ingestion.DocumentReader

	deterministic *ranking.DeterministicMatcher

	// guarded by mu; rebuilt by Reset
	mu        sync.RWMutex
	client    llm.Client
	completer llm.Completer
	extractor *parsing.Extractor
	holistic  *ranking.HolisticMatcher
}

// New builds a Service from cfg. Missing config values take their defaults.
func New(ctx context.Context, cfg config.Config, deps Deps) (*Service, error) {
	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Service{cfg: cfg, deps: deps, logger: logger, now: now}

	if err := s.initCache(ctx); err != nil {
		return nil, err
	}
	s.janitor = cache.StartJanitor(s.store, cfg.Cache.CleanupInterval, logger.Named("cache"))

	retries := cfg.Fetch.MaxRetries
	if retries == 0 {
		retries = fetch.NoRetries
	}
	s.fetcher = fetch.NewFetcher(&fetch.Options{
		Timeout:    cfg.Fetch.Timeout,
		MaxRetries: retries,
		UserAgent:  cfg.Fetch.UserAgent,
	}, deps.Transport, logger.Named("fetch"))

	policy := pipeline.Policy{
		MinVisibleChars:    cfg.Extraction.MinVisibleChars,
		AdvancedParseChars: cfg.Extraction.AdvancedParseChars,
		MinSiteChars:       cfg.Extraction.MinSiteChars,
	}

	renderer := deps.Renderer
	var loader sites.Loader = sites.FetchLoader{Fetcher: s.fetcher}
	if renderer == nil && cfg.Render.Enabled {
		opts := render.DefaultOptions()
		opts.ExecPath = cfg.Render.ChromePath
		opts.NavigationTimeout = cfg.Render.NavigationTimeout
		opts.Screenshot = cfg.Render.Screenshot
		opts.MinVisibleChars = cfg.Extraction.MinVisibleChars
		if cfg.Fetch.UserAgent != "" {
			opts.UserAgent = cfg.Fetch.UserAgent
		}
		r := render.New(opts, logger.Named("render"))
		renderer, loader = r, r
	}

	registry := deps.Registry
	if registry == nil {
		registry = sites.DefaultRegistry()
	}
	scraper := sites.NewScraper(registry, loader, logger.Named("sites"))

	s.pipeline = pipeline.New(s.store, s.fetcher,
		pipeline.DefaultStrategies(policy, renderer, scraper),
		policy, logger.Named("pipeline"))

	s.docs = deps.Documents
	if s.docs == nil {
		s.docs = ingestion.NewFileReader()
	}

	s.deterministic = ranking.NewDeterministicMatcher(logger.Named("ranking"))
	s.deterministic.Now = now

	if err := s.initLLM(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Debug("service ready",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Strings("strategies", s.pipeline.Strategies()),
		zap.Bool("llm", s.LLMEnabled()))
	return s, nil
}

func (s *Service) initCache(ctx context.Context) error {
	if s.deps.Store != nil {
		s.store = s.deps.Store
		return nil
	}

	opts := cache.Options{
		MaxAge:   s.cfg.Cache.MaxAge,
		Capacity: s.cfg.Cache.Capacity,
		Now:      s.now,
	}
	switch s.cfg.Cache.Backend {
	case config.BackendRedis:
		store, err := cache.ConnectRedis(ctx, s.cfg.Cache.RedisURL, opts, s.logger.Named("cache"))
		if err != nil {
			return fmt.Errorf("failed to connect to redis cache: %w", err)
		}
		s.store = store
		s.closers = append(s.closers, store.Close)
	case config.BackendPostgres:
		store, err := cache.ConnectPostgres(ctx, s.cfg.Cache.DatabaseURL, opts, s.logger.Named("cache"))
		if err != nil {
			return fmt.Errorf("failed to connect to postgres cache: %w", err)
		}
		s.store = store
		s.closers = append(s.closers, func() error { store.Close(); return nil })
	default:
		s.store = cache.NewMemory(opts)
	}
	return nil
}

// initLLM builds the completer, extractor and holistic matcher. Without an
// injected completer or an API key the extractor degrades every record and
// scoring is deterministic only.
func (s *Service) initLLM(ctx context.Context) error {
	completer := s.deps.Completer
	var client llm.Client

	if completer == nil {
		apiKey := s.cfg.LLM.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey != "" {
			llmCfg := llm.DefaultConfig().
				WithModel(llm.TierLite, s.cfg.LLM.LiteModel).
				WithModel(llm.TierStandard, s.cfg.LLM.StandardModel).
				WithModel(llm.TierAdvanced, s.cfg.LLM.AdvancedModel)
			c, err := llm.NewClient(ctx, llmCfg, apiKey)
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}
			client = c
			completer = llm.NewRetryCompleter(c, s.cfg.LLM.MaxRetries, s.cfg.LLM.BaseDelay, s.logger.Named("llm"))
		}
	}

	opts := parsing.Options{AdvancedParseChars: s.cfg.Extraction.AdvancedParseChars}
	extractor := parsing.NewExtractor(completer, opts, s.logger.Named("parsing"))
	var holistic *ranking.HolisticMatcher
	if completer != nil {
		holistic = ranking.NewHolisticMatcher(completer, s.logger.Named("ranking"))
	}

	s.mu.Lock()
	old := s.client
	s.client, s.completer, s.extractor, s.holistic = client, completer, extractor, holistic
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("failed to close previous LLM client", zap.Error(err))
		}
	}
	return nil
}

// Config returns the effective configuration.
func (s *Service) Config() config.Config {
	return s.cfg
}

// LLMEnabled reports whether a completer is configured.
func (s *Service) LLMEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completer != nil
}

// Reset clears the extraction cache and rebuilds the LLM collaborators,
// picking up a changed GEMINI_API_KEY.
func (s *Service) Reset(ctx context.Context) error {
	s.store.Clear(ctx)
	s.logger.Info("cache cleared")
	return s.initLLM(ctx)
}

// Close stops the janitor and releases backends.
func (s *Service) Close() error {
	if s.janitor != nil {
		s.janitor.Stop()
	}
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	s.mu.Lock()
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			errs = append(errs, err)
		}
		s.client = nil
	}
	s.mu.Unlock()
	return errors.Join(errs...)
}

// ExtractJobContent returns the clean text of the posting at url. Terminal
// failure is a *pipeline.ExhaustedError carrying a diagnosis.
func (s *Service) ExtractJobContent(ctx context.Context, url string) (*pipeline.Content, error) {
	return s.pipeline.Extract(ctx, url)
}

// OnAttempt registers an observer for every extraction attempt.
func (s *Service) OnAttempt(fn pipeline.AttemptCallback) {
	s.pipeline.OnAttempt = fn
}

// Diagnose fetches url and explains why automated extraction would struggle.
// Fetch failures other than an invalid URL still produce a diagnosis.
func (s *Service) Diagnose(ctx context.Context, url string) (*types.ExtractionDiagnosis, error) {
	res, err := s.fetcher.Fetch(ctx, url, nil)
	if fetch.IsKind(err, fetch.KindInvalidURL) {
		return nil, err
	}
	html := ""
	if res != nil {
		html = res.HTML
	}
	if err != nil {
		s.logger.Warn("fetch failed, diagnosing what was received", zap.String("url", url), zap.Error(err))
	}
	return diagnose.Analyze(html, url), nil
}

// ParseJob extracts structured fields from posting text. It never fails;
// problems produce a degraded record.
func (s *Service) ParseJob(ctx context.Context, text, sourceRef string) *types.ParsedJobDescription {
	s.mu.RLock()
	extractor := s.extractor
	s.mu.RUnlock()
	return extractor.ExtractJob(ctx, text, sourceRef)
}

// ParseJobURL acquires the posting text at url and parses it.
func (s *Service) ParseJobURL(ctx context.Context, url string) (*types.ParsedJobDescription, *pipeline.Content, error) {
	content, err := s.ExtractJobContent(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return s.ParseJob(ctx, content.Text, url), content, nil
}

// ParseResume extracts a candidate profile from resume text.
func (s *Service) ParseResume(ctx context.Context, text, sourceRef string) *types.ParsedResume {
	s.mu.RLock()
	extractor := s.extractor
	s.mu.RUnlock()
	return extractor.ExtractResume(ctx, text, sourceRef)
}

// ParseResumeFile reads a .txt, .md, .docx or .pdf resume and parses it.
func (s *Service) ParseResumeFile(ctx context.Context, path string) (*types.ParsedResume, error) {
	text, err := s.docs.ReadText(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.ParseResume(ctx, text, path), nil
}

// ScoreCandidateAgainstJobs ranks jobs for profile, keeping only matches
// scoring 60 or higher, best first. Nil criteria are derived from the
// profile. The LLM matcher is used when configured; if its call fails the
// deterministic scorer answers instead.
func (s *Service) ScoreCandidateAgainstJobs(ctx context.Context, profile *types.ParsedResume, jobs []*types.ParsedJobDescription, criteria *types.JobMatchingCriteria) ([]types.JobMatch, error) {
	if profile == nil {
		return nil, ErrNoProfile
	}
	if criteria == nil {
		derived := ranking.DeriveCriteria(profile, s.now())
		criteria = &derived
	}
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching criteria: %w", err)
	}

	s.mu.RLock()
	holistic := s.holistic
	s.mu.RUnlock()

	if holistic != nil {
		matches, err := holistic.MatchBatch(ctx, profile, jobs, criteria)
		if err == nil {
			return matches, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("holistic matching failed, using deterministic scores", zap.Error(err))
	}
	return s.deterministic.MatchBatch(ctx, profile, jobs, criteria)
}

// CacheStats describes the extraction cache.
type CacheStats struct {
	Backend  string        `json:"backend"`
	Entries  int           `json:"entries"`
	Capacity int           `json:"capacity"`
	MaxAge   time.Duration `json:"max_age"`
}

// CacheStats reports cache occupancy.
func (s *Service) CacheStats(ctx context.Context) CacheStats {
	backend := s.cfg.Cache.Backend
	if s.deps.Store != nil {
		backend = fmt.Sprintf("%T", s.deps.Store)
	}
	return CacheStats{
		Backend:  backend,
		Entries:  s.store.Len(ctx),
		Capacity: s.cfg.Cache.Capacity,
		MaxAge:   s.cfg.Cache.MaxAge,
	}
}

// CleanupCache purges expired entries now and returns how many were removed.
func (s *Service) CleanupCache(ctx context.Context) int {
	return s.store.Cleanup(ctx)
}
