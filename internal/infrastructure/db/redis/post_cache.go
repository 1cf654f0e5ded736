package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

const (
	defaultPostTTL    = time.Minute
	listGenerationKey = "posts:gen"
	listKeyPrefix     = "posts:list:"
	postKeyPrefix     = "posts:id:"
)

// PostCache stores JSON-encoded posts in Redis.
// Key format: posts:id:<postId> for single posts, posts:list:<gen> for the
// listing of generation gen, and posts:gen for the current generation.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache wraps client. A non-positive ttl falls back to defaultPostTTL.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = defaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

func (c *PostCache) GetPost(ctx context.Context, id int64) (*domain.Post, bool, error) {
	var post domain.Post
	hit, err := c.get(ctx, postKey(id), &post)
	if err != nil || !hit {
		return nil, false, err
	}
	return &post, true, nil
}

func (c *PostCache) SetPost(ctx context.Context, post domain.Post) error {
	return c.set(ctx, postKey(post.ID), post)
}

// ListGeneration returns the current listing generation, 0 before the first
// invalidation.
func (c *PostCache) ListGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, listGenerationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("post cache generation: %w", err)
	}
	return gen, nil
}

func (c *PostCache) GetList(ctx context.Context, gen int64) ([]domain.Post, bool, error) {
	var posts []domain.Post
	hit, err := c.get(ctx, listKey(gen), &posts)
	if err != nil || !hit {
		return nil, false, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, true, nil
}

func (c *PostCache) SetList(ctx context.Context, gen int64, posts []domain.Post) error {
	return c.set(ctx, listKey(gen), posts)
}

// InvalidateList moves readers to a new generation. Listings of older
// generations are never read again and expire with their TTL.
func (c *PostCache) InvalidateList(ctx context.Context) error {
	if err := c.client.Incr(ctx, listGenerationKey).Err(); err != nil {
		return fmt.Errorf("post cache invalidate: %w", err)
	}
	return nil
}

func (c *PostCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("post cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("post cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *PostCache) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("post cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("post cache set %s: %w", key, err)
	}
	return nil
}

func postKey(id int64) string {
	return postKeyPrefix + strconv.FormatInt(id, 10)
}

func listKey(gen int64) string {
	return listKeyPrefix + strconv.FormatInt(gen, 10)
}
