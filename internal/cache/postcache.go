package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recipereel/colette/internal/services/scraper"
)

// PostCache provides Redis-backed caching of scraped posts so a cache-missed
// extraction in a second language does not re-scrape the platform. Best
// effort: every failure is logged and treated as a miss.
type PostCache struct {
	client *redis.Client
	prefix string
}

// NewPostCache creates a post cache with the given Redis client. A nil
// client yields a no-op cache.
func NewPostCache(client *redis.Client) *PostCache {
	return &PostCache{client: client, prefix: "post:"}
}

// makeKey creates a cache key from a URL by hashing it.
func (c *PostCache) makeKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%s%x", c.prefix, hash)
}

// Get retrieves a cached post by URL. Misses and errors both return nil.
func (c *PostCache) Get(ctx context.Context, url string) (*scraper.SourcePost, error) {
	if c.client == nil {
		return nil, nil
	}

	key := c.makeKey(url)
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		slog.Warn("Redis post cache get failed", "error", err)
		return nil, nil
	}

	var post scraper.SourcePost
	if err := json.Unmarshal([]byte(data), &post); err != nil {
		slog.Warn("Failed to unmarshal cached post", "error", err)
		return nil, nil
	}

	return &post, nil
}

// Set stores a post in the cache with the given TTL.
func (c *PostCache) Set(ctx context.Context, url string, post *scraper.SourcePost, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(post)
	if err != nil {
		return err
	}

	key := c.makeKey(url)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("Redis post cache set failed", "error", err)
	}

	return nil
}

// Delete removes a post from the cache.
func (c *PostCache) Delete(ctx context.Context, url string) error {
	if c.client == nil {
		return nil
	}

	key := c.makeKey(url)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("Redis post cache delete failed", "error", err)
	}

	return nil
}
