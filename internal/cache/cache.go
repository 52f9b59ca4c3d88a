// Package cache keeps the weighted keywords of job descriptions in Redis so
// the same posting is not re-analyzed for every session.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/muhammadolammi/keywordmatch/internal/keywords"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "kw:"

// KeywordCache stores keyword weights keyed by a hash of the job text and
// the limits used. A nil or disabled cache misses on every Get and ignores
// every Set.
type KeywordCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redisURL. An empty URL, an invalid URL or an unreachable
// server yields a disabled cache, never an error: the cache is optional.
func New(ctx context.Context, redisURL string, ttl time.Duration) *KeywordCache {
	c := &KeywordCache{ttl: ttl}
	if redisURL == "" {
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("cache: invalid redis URL, cache disabled", slog.Any("error", err))
		return c
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("cache: redis unreachable, cache disabled", slog.Any("error", err))
		_ = rdb.Close()
		return c
	}

	c.rdb = rdb
	slog.Info("cache: redis connected", slog.String("addr", opts.Addr), slog.Duration("ttl", ttl))
	return c
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *KeywordCache {
	return &KeywordCache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (c *KeywordCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Key builds the cache key of a job text analyzed with limits.
func Key(jobText string, limits keywords.Limits) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", limits.JobText, jobText)))
	return fmt.Sprintf("%s%x", keyPrefix, h[:12])
}

// Get returns cached weights for key.
func (c *KeywordCache) Get(ctx context.Context, key string) (*keywords.Weights, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("cache: get failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	ws := keywords.NewWeights()
	if err := ws.UnmarshalJSON(data); err != nil {
		slog.Debug("cache: corrupt entry", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return ws, true
}

// Set stores weights under key.
func (c *KeywordCache) Set(ctx context.Context, key string, ws *keywords.Weights) {
	if !c.Enabled() || ws == nil {
		return
	}
	data, err := ws.MarshalJSON()
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Debug("cache: set failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Close releases the Redis client.
func (c *KeywordCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// JobKeywords returns the weights of jobText, from the cache when possible.
func (c *KeywordCache) JobKeywords(ctx context.Context, m *keywords.Matcher, jobText string) *keywords.Weights {
	key := Key(jobText, m.Limits())
	if ws, ok := c.Get(ctx, key); ok {
		return ws
	}
	ws := m.ExtractJobKeywords(jobText)
	c.Set(ctx, key, ws)
	return ws
}
