package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "samlap:backend:version"

// Cache stores decoded backend responses in Redis under a global version so a
// single Bump invalidates every entry.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns nil when caching is disabled so callers can pass the result
// straight into Options.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache generation, creating it on first use.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey joins parts and suffixes the current generation.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON fills dest from the cache or, on a miss, from load. A Redis
// failure degrades to calling load; only load errors are returned.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, load func(context.Context) error) error {
	if load == nil {
		return errors.New("cache: loader required")
	}
	if c == nil {
		return load(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(payload, dest); jsonErr == nil {
			return nil
		}
	}
	if err := load(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	return nil
}

// Bump starts a new generation; entries of older generations expire with their TTL.
func (c *Cache) Bump(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Result()
}
