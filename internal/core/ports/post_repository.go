package ports

import (
	"context"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

// PostRepository defines the persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// List returns every post ordered by ID, newest first.
	List(ctx context.Context) ([]domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// FindByIDs returns the posts that exist among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Post, error)
}

// PostCache is a read-through cache in front of PostRepository.
// A miss is reported as (nil, false, nil).
//
// Listings are stored per generation. Readers take the generation before
// querying the store and write under it, so a listing computed before an
// InvalidateList lands under a generation nobody reads any more.
type PostCache interface {
	GetPost(ctx context.Context, id int64) (*domain.Post, bool, error)
	SetPost(ctx context.Context, post domain.Post) error
	ListGeneration(ctx context.Context) (int64, error)
	GetList(ctx context.Context, gen int64) ([]domain.Post, bool, error)
	SetList(ctx context.Context, gen int64, posts []domain.Post) error
	// InvalidateList advances the listing generation.
	InvalidateList(ctx context.Context) error
}
