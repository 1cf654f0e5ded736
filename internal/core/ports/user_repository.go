package ports

import (
	"context"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create stores user, assigning its ID. Returns domain.ErrUserExists when
	// the nickname is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByNickname(ctx context.Context, nickname string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
