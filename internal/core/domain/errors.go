package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrPasswordMismatch   = errors.New("password and confirmation do not match")
	ErrUserExists         = errors.New("nickname is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid nickname or password")
	ErrUnauthorized       = errors.New("login required")
	ErrPostNotFound       = errors.New("post not found")
)

// AuthRejection records why a request could not be authenticated. It matches
// ErrUnauthorized under errors.Is, so callers that only care about the outcome
// never see the stage.
type AuthRejection struct {
	Stage string
	Err   error
}

func (e *AuthRejection) Error() string {
	if e.Err == nil {
		return ErrUnauthorized.Error() + ": " + e.Stage
	}
	return ErrUnauthorized.Error() + ": " + e.Stage + ": " + e.Err.Error()
}

func (e *AuthRejection) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnauthorized}
	}
	return []error{ErrUnauthorized, e.Err}
}

const (
	StageMissingToken    = "missing_token"
	StageMalformedHeader = "malformed_header"
	StageInvalidToken    = "invalid_token"
	StageUnknownUser     = "unknown_user"
)
