package services

import (
	"strings"
	"testing"
	"time"

	"news-portal/models"
	"news-portal/testutil"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	tokens := NewTokenService(testutil.Config())

	access, err := tokens.IssueAccess(42)
	require.NoError(t, err)
	refresh, err := tokens.IssueRefresh(42)
	require.NoError(t, err)

	sub, err := tokens.Verify(access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), sub)

	sub, err = tokens.Verify(refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), sub)
}

func TestTokenServiceRejectsWrongKind(t *testing.T) {
	tokens := NewTokenService(testutil.Config())

	refresh, err := tokens.IssueRefresh(7)
	require.NoError(t, err)
	_, err = tokens.Verify(refresh, AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	access, err := tokens.IssueAccess(7)
	require.NoError(t, err)
	_, err = tokens.Verify(access, RefreshToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestTokenServiceExpiry(t *testing.T) {
	cfg := testutil.Config()
	svc := NewTokenService(cfg).(*tokenService)

	issuedAt := time.Now().Add(-cfg.AccessTokenTTL() - time.Minute)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueAccess(1)
	require.NoError(t, err)

	_, err = svc.Verify(token, AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestTokenServiceRejectsTampering(t *testing.T) {
	tokens := NewTokenService(testutil.Config())
	token, err := tokens.IssueAccess(3)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tokens.Verify(tampered, AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	_, err = tokens.Verify("not-a-token", AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestTokenServiceRejectsOtherSecretAndAlgorithm(t *testing.T) {
	cfg := testutil.Config()
	tokens := NewTokenService(cfg)

	other := testutil.Config()
	other.JWTSecret = "another-secret"
	foreign, err := NewTokenService(other).IssueAccess(5)
	require.NoError(t, err)
	_, err = tokens.Verify(foreign, AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	other = testutil.Config()
	other.JWTAlgorithm = "HS512"
	mismatched, err := NewTokenService(other).IssueAccess(5)
	require.NoError(t, err)
	_, err = tokens.Verify(mismatched, AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestTokenServiceRequiresExpiry(t *testing.T) {
	cfg := testutil.Config()
	claims := TokenClaims{
		Type:             AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "9"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = NewTokenService(cfg).Verify(token, AccessToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}
