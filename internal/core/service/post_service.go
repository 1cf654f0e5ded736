package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/ports"
	"github.com/sirpyerre/postboard/internal/pkg/metrics"
)

// samplePosts is what Seed publishes, in insertion order.
var samplePosts = []domain.Post{
	{Title: "Eat sandwich", Content: "This is so delicious", Like: 0},
	{Title: "Eat Sausage", Content: "I love the taste!", Like: 0},
	{Title: "Eat Burger", Content: "Soo delicious", Like: 0},
}

type PostService struct {
	repo   ports.PostRepository
	cache  ports.PostCache
	now    func() time.Time
	logger zerolog.Logger
}

func NewPostService(repo ports.PostRepository, cache ports.PostCache, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, cache: cache, now: time.Now, logger: logger}
}

// List returns all posts, newest first. The listing is cached under the
// generation read before the store query, so a concurrent Seed can never be
// hidden by it. Cache failures fall through to the repository.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	gen, err := s.cache.ListGeneration(ctx)
	if err != nil {
		metrics.PostCacheLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("post list generation read failed, querying store")
		return s.listFromStore(ctx)
	}

	cached, hit, err := s.cache.GetList(ctx, gen)
	switch {
	case err != nil:
		metrics.PostCacheLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("post list cache read failed, querying store")
	case hit:
		metrics.PostCacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.PostCacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	posts, err := s.listFromStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, gen, posts); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache post list")
	}
	return posts, nil
}

func (s *PostService) listFromStore(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	if id <= 0 {
		return nil, domain.ErrPostNotFound
	}

	cached, hit, err := s.cache.GetPost(ctx, id)
	switch {
	case err != nil:
		metrics.PostCacheLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Int64("post_id", id).Msg("post cache read failed, querying store")
	case hit:
		metrics.PostCacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.PostCacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPost(ctx, *post); err != nil {
		s.logger.Warn().Err(err).Int64("post_id", id).Msg("failed to cache post")
	}
	return post, nil
}

// Seed publishes the sample posts. Calling it again publishes another copy.
func (s *PostService) Seed(ctx context.Context) error {
	for _, sample := range samplePosts {
		now := s.now().UTC()
		post := sample
		post.CreatedAt = now
		post.UpdatedAt = now

		created, err := s.repo.Create(ctx, &post)
		if err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}
		s.logger.Info().Int64("post_id", created.ID).Str("title", created.Title).Msg("post created")
	}

	if err := s.cache.InvalidateList(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate post list cache")
	}
	return nil
}
