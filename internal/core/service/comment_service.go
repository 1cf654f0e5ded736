package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/ports"
	"github.com/sirpyerre/postboard/internal/pkg/metrics"
)

type commentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	now      func() time.Time
	log      zerolog.Logger
}

// NewCommentService returns a CommentService implementation.
func NewCommentService(
	comments ports.CommentRepository,
	posts ports.PostRepository,
	log zerolog.Logger,
) ports.CommentService {
	return &commentService{
		comments: comments,
		posts:    posts,
		now:      time.Now,
		log:      log,
	}
}

// ListByUser returns every comment written by userID together with its post.
func (s *commentService) ListByUser(ctx context.Context, userID int64) ([]ports.CommentView, error) {
	comments, err := s.comments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if len(comments) == 0 {
		return []ports.CommentView{}, nil
	}

	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.PostID)
	}
	posts, err := s.posts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list comments: load posts: %w", err)
	}

	views := make([]ports.CommentView, 0, len(comments))
	for _, c := range comments {
		view := ports.CommentView{Content: c.Content}
		if p, ok := posts[c.PostID]; ok {
			post := p
			view.Post = &post
		}
		views = append(views, view)
	}
	return views, nil
}

// Upsert creates the caller's comment on postID or overwrites its content.
func (s *commentService) Upsert(ctx context.Context, userID, postID int64, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: contentComment is required", domain.ErrInvalidInput)
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return err
	}

	if err := s.comments.Upsert(ctx, userID, postID, content, s.now().UTC()); err != nil {
		return fmt.Errorf("upsert comment: %w", err)
	}

	metrics.CommentMutationsTotal.WithLabelValues("upsert").Inc()
	s.log.Info().Int64("user_id", userID).Int64("post_id", postID).Msg("comment saved")
	return nil
}

// Delete removes the caller's comment on postID. A missing comment is not an error.
func (s *commentService) Delete(ctx context.Context, userID, postID int64) error {
	deleted, err := s.comments.Delete(ctx, userID, postID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if !deleted {
		s.log.Debug().Int64("user_id", userID).Int64("post_id", postID).Msg("no comment to delete")
		return nil
	}

	metrics.CommentMutationsTotal.WithLabelValues("delete").Inc()
	s.log.Info().Int64("user_id", userID).Int64("post_id", postID).Msg("comment deleted")
	return nil
}
