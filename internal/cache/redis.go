package cache

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultRedisPrefix = "jobscout:cache:"

// RedisStore shares the cache across processes. Content keys carry a TTL equal to
// MaxAge; a sorted set scored by write time drives oldest-first eviction.
type RedisStore struct {
	client *redis.Client
	prefix string
	opts   Options
	logger *zap.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, opts Options, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		prefix: defaultRedisPrefix,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// ConnectRedis parses a redis:// URL and pings the server.
func ConnectRedis(ctx context.Context, redisURL string, opts Options, logger *zap.Logger) (*RedisStore, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(parsed)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisStore(client, opts, logger), nil
}

func (s *RedisStore) key(url string) string { return s.prefix + "entry:" + url }
func (s *RedisStore) indexKey() string      { return s.prefix + "index" }

// Get returns cached content. Keys expired by Redis are also dropped from the index.
func (s *RedisStore) Get(ctx context.Context, url string) (string, bool) {
	content, err := s.client.Get(ctx, s.key(url)).Result()
	if errors.Is(err, redis.Nil) {
		_ = s.client.ZRem(ctx, s.indexKey(), url).Err()
		return "", false
	}
	if err != nil {
		s.logger.Warn("redis cache get failed", zap.String("url", url), zap.Error(err))
		return "", false
	}
	return content, true
}

// Set writes content, evicting the oldest entry when the index is at capacity.
func (s *RedisStore) Set(ctx context.Context, url, content string) {
	_, err := s.client.ZScore(ctx, s.indexKey(), url).Result()
	isNew := errors.Is(err, redis.Nil)
	if err != nil && !isNew {
		s.logger.Warn("redis cache index lookup failed", zap.String("url", url), zap.Error(err))
		return
	}

	if isNew {
		count, err := s.client.ZCard(ctx, s.indexKey()).Result()
		if err != nil {
			s.logger.Warn("redis cache size check failed", zap.Error(err))
			return
		}
		if count >= int64(s.opts.Capacity) {
			s.evictOldest(ctx, count-int64(s.opts.Capacity)+1)
		}
	}

	storedAt := s.opts.Now()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(url), content, s.opts.MaxAge)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(storedAt.UnixNano()), Member: url})
		return nil
	})
	if err != nil {
		s.logger.Warn("redis cache set failed", zap.String("url", url), zap.Error(err))
	}
}

func (s *RedisStore) evictOldest(ctx context.Context, n int64) {
	popped, err := s.client.ZPopMin(ctx, s.indexKey(), n).Result()
	if err != nil {
		s.logger.Warn("redis cache eviction failed", zap.Error(err))
		return
	}
	for _, z := range popped {
		if member, ok := z.Member.(string); ok {
			_ = s.client.Del(ctx, s.key(member)).Err()
		}
	}
}

// Cleanup removes index entries older than MaxAge along with their content keys.
func (s *RedisStore) Cleanup(ctx context.Context) int {
	cutoff := s.opts.Now().Add(-s.opts.MaxAge).UnixNano()
	upper := "(" + strconv.FormatInt(cutoff, 10)

	stale, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{Min: "-inf", Max: upper}).Result()
	if err != nil {
		s.logger.Warn("redis cache cleanup scan failed", zap.Error(err))
		return 0
	}
	if len(stale) == 0 {
		return 0
	}

	keys := make([]string, 0, len(stale))
	for _, url := range stale {
		keys = append(keys, s.key(url))
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRemRangeByScore(ctx, s.indexKey(), "-inf", upper)
		return nil
	})
	if err != nil {
		s.logger.Warn("redis cache cleanup failed", zap.Error(err))
		return 0
	}
	return len(stale)
}

// Len returns the number of indexed entries.
func (s *RedisStore) Len(ctx context.Context) int {
	n, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// Clear removes every entry owned by this store.
func (s *RedisStore) Clear(ctx context.Context) {
	urls, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		s.logger.Warn("redis cache clear failed", zap.Error(err))
		return
	}
	keys := []string{s.indexKey()}
	for _, url := range urls {
		keys = append(keys, s.key(url))
	}
	_ = s.client.Del(ctx, keys...).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
