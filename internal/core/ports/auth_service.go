package ports

import (
	"context"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Nickname        string
	Password        string
	ConfirmPassword string
}

// Authenticator resolves a bearer token to a live user. Every rejection is
// reported as domain.ErrUnauthorized; any other error is a server fault.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AuthService interface {
	Authenticator
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, nickname, password string) (string, error)
}
