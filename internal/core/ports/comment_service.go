package ports

import (
	"context"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

// CommentView pairs a comment body with the post it was written on.
// Post is nil when the post no longer exists.
type CommentView struct {
	Content string
	Post    *domain.Post
}

type CommentService interface {
	ListByUser(ctx context.Context, userID int64) ([]CommentView, error)
	Upsert(ctx context.Context, userID, postID int64, content string) error
	Delete(ctx context.Context, userID, postID int64) error
}
