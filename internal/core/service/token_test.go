package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard", TTL: time.Hour})

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenIssuer_ZeroTTLOmitsExpiry(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard"})

	token, err := issuer.Issue(1)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.NotContains(t, claims, "exp")
	assert.Contains(t, claims, "jti")

	issuer.now = func() time.Time { return time.Now().Add(100 * 365 * 24 * time.Hour) }
	_, err = issuer.Verify(token)
	assert.NoError(t, err)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard", TTL: time.Minute})
	token, err := issuer.Issue(1)
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Verify(token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired), "got %v", err)
}

func TestTokenIssuer_WrongIssuer(t *testing.T) {
	token, err := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "elsewhere"}).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard"}).Verify(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := identityClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: "postboard"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard"}).Verify(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsMissingUserID(t *testing.T) {
	claims := identityClaims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "postboard"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "postboard"}).Verify(token)
	assert.ErrorIs(t, err, errInvalidSubject)
}
