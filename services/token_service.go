package services

import (
	"fmt"
	"strconv"
	"time"

	"news-portal/config"
	"news-portal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenClaims is the signed payload: sub, type, exp (plus iat and jti).
type TokenClaims struct {
	Type TokenKind `json:"type"`
	jwt.RegisteredClaims
}

type TokenService interface {
	IssueAccess(subject uint) (string, error)
	IssueRefresh(subject uint) (string, error)
	// Verify returns the subject of a valid token of the expected kind.
	// Every failure is reported as models.ErrInvalidToken.
	Verify(token string, expected TokenKind) (uint, error)
}

type tokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{
		secret:     []byte(cfg.JWTSecret),
		method:     jwt.GetSigningMethod(cfg.JWTAlgorithm),
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
		now:        time.Now,
	}
}

func (s *tokenService) IssueAccess(subject uint) (string, error) {
	return s.issue(subject, AccessToken, s.accessTTL)
}

func (s *tokenService) IssueRefresh(subject uint) (string, error) {
	return s.issue(subject, RefreshToken, s.refreshTTL)
}

func (s *tokenService) issue(subject uint, kind TokenKind, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subject), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *tokenService) Verify(token string, expected TokenKind) (uint, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, models.ErrInvalidToken
	}

	// RegisteredClaims treats a missing exp as valid; tokens here always expire.
	if claims.ExpiresAt == nil {
		return 0, models.ErrInvalidToken
	}
	if claims.Type != expected {
		return 0, models.ErrInvalidToken
	}

	sub, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || sub == 0 {
		return 0, models.ErrInvalidToken
	}
	return uint(sub), nil
}
