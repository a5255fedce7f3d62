package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CatalogCache implements ports.CatalogCache using Redis.
type CatalogCache struct {
	client *goredis.Client
	prefix string
}

// NewCatalogCache creates a new Redis-backed storefront cache.
func NewCatalogCache(client *goredis.Client) *CatalogCache {
	return &CatalogCache{
		client: client,
		prefix: "storefront:",
	}
}

// Get retrieves a cached storefront page by slug.
// Returns nil, nil if the slug is not cached.
func (c *CatalogCache) Get(ctx context.Context, slug string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+slug).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis catalog get: %w", err)
	}
	return val, nil
}

// Set stores a rendered storefront page with TTL.
func (c *CatalogCache) Set(ctx context.Context, slug string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+slug, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis catalog set: %w", err)
	}
	return nil
}

// Invalidate drops a cached storefront page after a catalog change.
func (c *CatalogCache) Invalidate(ctx context.Context, slug string) error {
	err := c.client.Del(ctx, c.prefix+slug).Err()
	if err != nil {
		return fmt.Errorf("redis catalog invalidate: %w", err)
	}
	return nil
}
