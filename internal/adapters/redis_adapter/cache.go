// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// CacheKeyPrefix namespaces one ledger inside a shared Redis database.
type CacheKeyPrefix string

// PrefixLedger is used when no prefix is configured.
const PrefixLedger CacheKeyPrefix = "ledger"

var (
	// ErrCacheMiss is returned when nothing is stored under a key
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheDecode is returned when a stored document is not valid JSON for dest
	ErrCacheDecode = errors.New("cache value decode failed")
)

// Cache stores JSON documents in Redis.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ports.DocumentCache = (*Cache)(nil)

// NewCache creates a new cache instance
func NewCache(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Put overwrites the document under key. Documents never expire.
func (c *Cache) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to write document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set error: %w", err)
	}

	c.logger.DebugContext(ctx, "document written",
		slog.String("key", key),
		slog.Int("bytes", len(data)))

	return nil
}

// Get decodes the document under key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
		return ErrCacheMiss
	case err != nil:
		c.logger.ErrorContext(ctx, "failed to read document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCacheDecode, key, err)
	}
	return nil
}

// Ping checks if Redis is accessible
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

// BuildKey joins prefix and parts with ':'.
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	return strings.Join(append([]string{string(prefix)}, parts...), ":")
}
