// Package oddscache caches rendered plays/odds responses in Redis so repeat
// lookups skip the database. A nil *Cache is a no-op, which is how the
// service runs when no Redis address is configured.
package oddscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache wraps a Redis client with a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// Config holds Redis cache configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New creates a cache, or nil when no address is configured.
func New(cfg Config, logger zerolog.Logger) *Cache {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With().Str("component", "odds_cache").Logger(),
	}
}

// Get loads and unmarshals a cached value into dest. Returns false on miss,
// disabled cache, or any Redis/decode error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache decode failed")
		return false
	}
	return true
}

// Set stores a value under the configured TTL. Failures are logged, never
// surfaced; the cache is best effort.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return
	}
	c.logger.Debug().Str("key", key).Dur("ttl", c.ttl).Msg("cached")
}

// Invalidate removes one key, used after a sync touches its match.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
