package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/ports"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthService(t *testing.T, repo *stubUserRepo) *AuthService {
	t.Helper()
	tokens := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard", TTL: time.Hour})
	svc, err := NewAuthService(repo, tokens, bcrypt.MinCost, zerolog.Nop())
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

func register(t *testing.T, svc *AuthService, nickname, password string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Nickname:        nickname,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", nickname, err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)

	user := register(t, svc, "alice", "p1")
	if user.ID == 0 {
		t.Fatalf("expected an assigned user id")
	}
	if user.PasswordHash == "p1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("p1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)

	cases := []ports.RegisterInput{
		{Nickname: "", Password: "p", ConfirmPassword: "p"},
		{Nickname: "   ", Password: "p", ConfirmPassword: "p"},
		{Nickname: "bob", Password: "", ConfirmPassword: ""},
		{Nickname: "bob", Password: "p", ConfirmPassword: ""},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
	if repo.creates != 0 {
		t.Fatalf("expected no user created, got %d", repo.creates)
	}
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Nickname: "bob", Password: "a", ConfirmPassword: "b"})
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if _, err := repo.FindByNickname(context.Background(), "bob"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected no user to be created")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)

	register(t, svc, "bob", "pass")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Nickname: "bob", Password: "other", ConfirmPassword: "other"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected exactly one user, got %d", repo.creates)
	}
}

func TestAuthService_Register_LookupFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("mongo unavailable")
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Nickname: "bob", Password: "p", ConfirmPassword: "p"})
	if err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected a wrapped store error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)
	user := register(t, svc, "carol", "s3cret")

	token, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["userId"] != float64(user.ID) {
		t.Fatalf("expected userId %d, got %v", user.ID, claims["userId"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)
	register(t, svc, "dave", "goodpass")

	token, err := svc.Login(context.Background(), "dave", "badpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token on failure")
	}
}

func TestAuthService_Login_UnknownNickname(t *testing.T) {
	svc := newTestAuthService(t, newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)
	user := register(t, svc, "erin", "pw")

	token, err := svc.Login(context.Background(), "erin", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != user.ID || got.Nickname != "erin" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestAuthService_Authenticate_Rejections(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)
	register(t, svc, "frank", "pw")
	valid, _ := svc.Login(context.Background(), "frank", "pw")

	foreign, _ := NewTokenIssuer(TokenConfig{Secret: "another-secret-another-secret-xx", Issuer: "postboard"}).Issue(1)

	cases := map[string]string{
		"garbage":        "not-a-token",
		"foreign secret": foreign,
		"tampered":       valid + "x",
	}
	for name, token := range cases {
		_, err := svc.Authenticate(context.Background(), token)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
		var rej *domain.AuthRejection
		if !errors.As(err, &rej) || rej.Stage != domain.StageInvalidToken {
			t.Fatalf("%s: expected invalid_token stage, got %v", name, err)
		}
	}
}

func TestAuthService_Authenticate_DeletedUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)
	register(t, svc, "gina", "pw")
	token, _ := svc.Login(context.Background(), "gina", "pw")

	repo.remove("gina")

	_, err := svc.Authenticate(context.Background(), token)
	var rej *domain.AuthRejection
	if !errors.As(err, &rej) || rej.Stage != domain.StageUnknownUser {
		t.Fatalf("expected unknown_user rejection, got %v", err)
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreFailureIsNotUnauthorized(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo)
	register(t, svc, "hank", "pw")
	token, _ := svc.Login(context.Background(), "hank", "pw")

	repo.findErr = errors.New("mongo unavailable")

	_, err := svc.Authenticate(context.Background(), token)
	if err == nil || errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected a server fault, got %v", err)
	}
}

func TestNewAuthService_CostOutOfRangeFallsBack(t *testing.T) {
	tokens := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard"})

	svc, err := NewAuthService(newStubUserRepo(), tokens, bcrypt.MaxCost+1, zerolog.Nop())
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if svc.cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost %d, got %d", bcrypt.DefaultCost, svc.cost)
	}
	if cost, err := bcrypt.Cost(svc.dummyHash); err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("expected dummy hash at cost %d, got %d (%v)", bcrypt.DefaultCost, cost, err)
	}
}
