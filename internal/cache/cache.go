// Package cache provides the extraction result cache: a bounded, expiring map from
// source URL to previously extracted text.
package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultMaxAge is how long an entry stays valid after it was written
	DefaultMaxAge = 24 * time.Hour
	// DefaultCapacity is the maximum number of entries held at once
	DefaultCapacity = 100
	// DefaultCleanupInterval is how often the janitor purges expired entries
	DefaultCleanupInterval = time.Hour
)

// Entry is a single cached extraction.
type Entry struct {
	URL      string
	Content  string
	StoredAt time.Time
	seq      uint64
}

// Store is implemented by every cache backend.
// Backends are best-effort: an unreachable backend behaves like an empty cache.
type Store interface {
	Get(ctx context.Context, url string) (string, bool)
	Set(ctx context.Context, url, content string)
	Cleanup(ctx context.Context) int
	Len(ctx context.Context) int
	Clear(ctx context.Context)
}

// Options configures a cache backend.
type Options struct {
	MaxAge   time.Duration
	Capacity int
	// Now is the clock used for write timestamps and expiry. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard 24h / 100 entry policy.
func DefaultOptions() Options {
	return Options{
		MaxAge:   DefaultMaxAge,
		Capacity: DefaultCapacity,
		Now:      time.Now,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultMaxAge
	}
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Memory is the in-process Store. Eviction is by oldest write, not by access.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*Entry
	seq     uint64
	opts    Options
}

// NewMemory creates an in-process cache.
func NewMemory(opts Options) *Memory {
	return &Memory{
		entries: make(map[string]*Entry),
		opts:    opts.withDefaults(),
	}
}

// Get returns the cached content for url. Expired entries are removed and reported absent.
func (m *Memory) Get(_ context.Context, url string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[url]
	if !ok {
		return "", false
	}
	if m.expired(entry, m.opts.Now()) {
		delete(m.entries, url)
		return "", false
	}
	return entry.Content, true
}

// Set stores content for url with a fresh timestamp, evicting the oldest entry when full.
func (m *Memory) Set(_ context.Context, url, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[url]; !exists && len(m.entries) >= m.opts.Capacity {
		m.evictOldestLocked()
	}

	m.seq++
	m.entries[url] = &Entry{
		URL:      url,
		Content:  content,
		StoredAt: m.opts.Now(),
		seq:      m.seq,
	}
}

// Cleanup removes every expired entry and returns how many were removed.
func (m *Memory) Cleanup(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Now()
	removed := 0
	for url, entry := range m.entries {
		if m.expired(entry, now) {
			delete(m.entries, url)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired or not.
func (m *Memory) Len(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear drops every entry.
func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*Entry)
}

// snapshot returns a copy of the current entries.
func (m *Memory) snapshot() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out
}

func (m *Memory) expired(e *Entry, now time.Time) bool {
	return now.Sub(e.StoredAt) > m.opts.MaxAge
}

// evictOldestLocked removes the entry with the smallest write timestamp.
// Ties are broken by write order. Caller must hold m.mu.
func (m *Memory) evictOldestLocked() {
	var oldest *Entry
	for _, e := range m.entries {
		if oldest == nil || e.StoredAt.Before(oldest.StoredAt) ||
			(e.StoredAt.Equal(oldest.StoredAt) && e.seq < oldest.seq) {
			oldest = e
		}
	}
	if oldest != nil {
		delete(m.entries, oldest.URL)
	}
}
