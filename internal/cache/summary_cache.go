// Package cache keeps light article listing pages in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/article-cms-api/internal/config"
	"github.com/article-cms-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// generationKey holds a counter that is part of every page key. Bumping it
// orphans all cached pages at once; orphans expire through their TTL.
const generationKey = "articles:light:gen"

// SummaryCache caches ArticleSummary pages by (limit, offset)
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// NewSummaryCache wraps an existing client
func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

func (c *SummaryCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func pageKey(gen int64, limit, offset int) string {
	return fmt.Sprintf("articles:light:%d:%d:%d", gen, limit, offset)
}

// GetSummaries returns a cached page. The bool is false on a miss. The
// returned generation must be handed back to SetSummaries when filling the miss.
func (c *SummaryCache) GetSummaries(ctx context.Context, limit, offset int) ([]models.ArticleSummary, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.rdb.Get(ctx, pageKey(gen, limit, offset)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}

	var summaries []models.ArticleSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, gen, false, fmt.Errorf("decode cached page: %w", err)
	}
	return summaries, gen, true, nil
}

// SetSummaries stores a page under the generation observed by the miss. A fill
// that raced an Invalidate lands in an orphaned key and is never served.
func (c *SummaryCache) SetSummaries(ctx context.Context, gen int64, limit, offset int, summaries []models.ArticleSummary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, pageKey(gen, limit, offset), data, c.ttl).Err()
}

// Invalidate drops every cached page
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}

// Close releases the Redis connection
func (c *SummaryCache) Close() error {
	return c.rdb.Close()
}
