// Package cache provides the Redis read-side cache for video detail
// responses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vidhub/pkg/config"
	"vidhub/pkg/models"
)

// ErrMiss is returned when the key is absent from the cache.
var ErrMiss = errors.New("cache miss")

// VideoCache caches owner-enriched video detail documents. All methods
// are best-effort: callers fall back to the repository on any error.
type VideoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVideoCache connects to Redis and verifies connectivity.
func NewVideoCache(cfg config.RedisConfig) (*VideoCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	ttl := cfg.VideoTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	return &VideoCache{client: client, ttl: ttl}, nil
}

func videoKey(videoID string) string {
	return "video:detail:" + videoID
}

// Get returns the cached detail document or ErrMiss.
func (c *VideoCache) Get(ctx context.Context, videoID string) (*models.VideoResponse, error) {
	data, err := c.client.Get(ctx, videoKey(videoID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var resp models.VideoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Set stores the detail document with the configured TTL.
func (c *VideoCache) Set(ctx context.Context, resp *models.VideoResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, videoKey(resp.ID), data, c.ttl).Err()
}

// Invalidate drops the cached entry after a mutation.
func (c *VideoCache) Invalidate(ctx context.Context, videoID string) error {
	return c.client.Del(ctx, videoKey(videoID)).Err()
}

// Close releases the Redis connection.
func (c *VideoCache) Close() error {
	return c.client.Close()
}
