package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

// CommentRepository defines the persistence operations for comments.
type CommentRepository interface {
	// Upsert atomically creates or overwrites the comment of userID on postID.
	Upsert(ctx context.Context, userID, postID int64, content string, at time.Time) error
	// Delete removes the comment of userID on postID. deleted is false when
	// there was nothing to remove.
	Delete(ctx context.Context, userID, postID int64) (deleted bool, err error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Comment, error)
}
