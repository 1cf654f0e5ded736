package ports

import (
	"context"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

type PostService interface {
	List(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	// Seed publishes the fixed set of sample posts.
	Seed(ctx context.Context) error
}
