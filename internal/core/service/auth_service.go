package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/ports"
	"github.com/sirpyerre/postboard/internal/pkg/metrics"
)

// AuthService implements registration, login and token authentication.
type AuthService struct {
	users     ports.UserRepository
	tokens    *TokenIssuer
	cost      int
	dummyHash []byte
	now       func() time.Time
	log       zerolog.Logger
}

// NewAuthService builds the service. A bcryptCost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewAuthService(users ports.UserRepository, tokens *TokenIssuer, bcryptCost int, log zerolog.Logger) (*AuthService, error) {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// Compared against when the nickname is unknown so both login failures
	// cost one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("postboard:unknown-user"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: generate dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		cost:      bcryptCost,
		dummyHash: dummy,
		now:       time.Now,
		log:       log,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, fmt.Errorf("%w: nickname, password and confirmPassword are required", domain.ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		metrics.RegistrationsTotal.WithLabelValues("mismatch").Inc()
		return nil, domain.ErrPasswordMismatch
	}

	existing, err := s.users.FindByNickname(ctx, nickname)
	switch {
	case err == nil && existing != nil:
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Nickname:     nickname,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Int64("user_id", created.ID).Str("nickname", created.Nickname).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and returns a signed identity token.
// Unknown nicknames and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || password == "" {
		return "", fmt.Errorf("%w: nickname and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByNickname(ctx, nickname)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", fmt.Errorf("login: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Debug().Int64("user_id", user.ID).Msg("token issued")
	return token, nil
}

// Authenticate verifies token and loads the user it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, &domain.AuthRejection{Stage: domain.StageInvalidToken, Err: err}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, &domain.AuthRejection{Stage: domain.StageUnknownUser, Err: err}
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}
