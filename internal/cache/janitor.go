package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically purges expired entries from a Store.
type Janitor struct {
	store    Store
	interval time.Duration
	logger   *zap.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartJanitor launches a background cleanup loop. Call Stop to end it.
func StartJanitor(store Store, interval time.Duration, logger *zap.Logger) *Janitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Janitor{
		store:    store,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go j.run()
	return j
}

func (j *Janitor) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

// sweep runs one cleanup pass. A panicking backend must not kill the loop.
func (j *Janitor) sweep() {
	defer func() {
		if r := recover(); r != nil {
			j.logger.Error("cache cleanup panicked", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if removed := j.store.Cleanup(ctx); removed > 0 {
		j.logger.Debug("cache cleanup", zap.Int("evicted", removed))
	}
}

// Stop ends the cleanup loop and waits for it to exit. Safe to call more than once.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
	<-j.done
}
