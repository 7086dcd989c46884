package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"news-portal/config"
	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Author, error)
	// Authenticate returns models.ErrUnauthenticated for an unknown email,
	// an inactive identity and a wrong password alike.
	Authenticate(ctx context.Context, email, password string) (*models.Author, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error)
	// RefreshSession issues a fresh pair. The presented refresh token stays
	// valid until it expires; there is no revocation list.
	RefreshSession(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	ResolveAccessToken(ctx context.Context, accessToken string) (*models.Author, error)
}

type authService struct {
	authorRepo repositories.AuthorRepository
	auditRepo  repositories.AuditLogRepository
	tokens     TokenService
	bcryptCost int
	dummyHash  []byte
	log        *zap.Logger
}

func NewAuthService(cfg *config.Config, authorRepo repositories.AuthorRepository, auditRepo repositories.AuditLogRepository, tokens TokenService, log *zap.Logger) AuthService {
	// Compared against when the email is unknown so both failure paths
	// spend the same bcrypt work.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cfg.BcryptCost)

	return &authService{
		authorRepo: authorRepo,
		auditRepo:  auditRepo,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		dummyHash:  dummy,
		log:        log,
	}
}

// ValidatePassword enforces at least 8 characters with an upper-case
// letter, a digit and a symbol.
func ValidatePassword(password string) error {
	if len([]rune(password)) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters", models.ErrWeakPassword)
	}

	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	var missing []string
	if !upper {
		missing = append(missing, "an upper-case letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !symbol {
		missing = append(missing, "a symbol")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: must contain %s", models.ErrWeakPassword, strings.Join(missing, ", "))
	}
	return nil
}

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.Author, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.authorRepo.ExistsByEmailOrName(ctx, email, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateIdentity
	}

	hashed, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	author := &models.Author{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.authorRepo.Create(ctx, author); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateIdentity
		}
		return nil, err
	}

	s.log.Info("author registered", zap.Uint("author_id", author.ID))
	return author, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.Author, error) {
	author, err := s.authorRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(author.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrUnauthenticated
	}
	if !author.IsActive {
		return nil, models.ErrUnauthenticated
	}
	return author, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	author, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			loginsTotal.WithLabelValues("rejected").Inc()
		} else {
			loginsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	pair, err := s.issuePair(author.ID)
	if err != nil {
		return nil, err
	}

	loginsTotal.WithLabelValues("success").Inc()
	if err := s.auditRepo.Create(ctx, &models.AuditLog{
		EventType:  models.EventLogin,
		UserID:     &author.ID,
		ObjectType: string(policy.KindAuthor),
		ObjectID:   &author.ID,
	}); err != nil {
		s.log.Warn("audit login failed", zap.Uint("author_id", author.ID), zap.Error(err))
	}

	return pair, nil
}

func (s *authService) RefreshSession(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	subject, err := s.tokens.Verify(refreshToken, RefreshToken)
	if err != nil {
		return nil, err
	}

	author, err := s.authorRepo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}
	if !author.IsActive {
		return nil, models.ErrInvalidToken
	}

	return s.issuePair(author.ID)
}

func (s *authService) ResolveAccessToken(ctx context.Context, accessToken string) (*models.Author, error) {
	subject, err := s.tokens.Verify(accessToken, AccessToken)
	if err != nil {
		return nil, err
	}

	author, err := s.authorRepo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}
	if !author.IsActive {
		return nil, models.ErrInvalidToken
	}
	return author, nil
}

func (s *authService) issuePair(subject uint) (*models.TokenPair, error) {
	access, err := s.tokens.IssueAccess(subject)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(subject)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
