package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthorService interface {
	GetAuthors(ctx context.Context, page models.Page) ([]models.Author, int64, error)
	GetAuthor(ctx context.Context, id uint) (*models.Author, error)
	CreateAuthor(ctx context.Context, actor *models.Author, req models.CreateAuthorRequest) (*models.Author, error)
	UpdateAuthor(ctx context.Context, actor *models.Author, id uint, req models.UpdateAuthorRequest) (*models.Author, error)
	UpdateRole(ctx context.Context, actor *models.Author, id uint, role models.Role) (*models.Author, error)
	// DeleteAuthor fails with models.ErrConflict while the author still has
	// articles or uploaded media. Comments and social integrations go with
	// the author.
	DeleteAuthor(ctx context.Context, actor *models.Author, id uint) error
}

type authorService struct {
	repos        *repositories.Repositories
	bcryptCost   int
	maxPageLimit int
	log          *zap.Logger
}

func NewAuthorService(repos *repositories.Repositories, bcryptCost, maxPageLimit int, log *zap.Logger) AuthorService {
	return &authorService{repos: repos, bcryptCost: bcryptCost, maxPageLimit: maxPageLimit, log: log}
}

func (s *authorService) GetAuthors(ctx context.Context, page models.Page) ([]models.Author, int64, error) {
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	return s.repos.Authors.List(ctx, page)
}

func (s *authorService) GetAuthor(ctx context.Context, id uint) (*models.Author, error) {
	return s.repos.Authors.GetByID(ctx, id)
}

func (s *authorService) CreateAuthor(ctx context.Context, actor *models.Author, req models.CreateAuthorRequest) (*models.Author, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindAuthor}); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrInvalidArgument, role)
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	exists, err := s.repos.Authors.ExistsByEmailOrName(ctx, email, name)
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
		Bio:          req.Bio,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
		CreatedByID:  &actor.ID,
	}
	if err := s.repos.Authors.Create(ctx, author); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateIdentity
		}
		return nil, err
	}

	s.log.Info("author created", zap.Uint("author_id", author.ID), zap.Uint("created_by", actor.ID), zap.String("role", string(role)))
	return author, nil
}

func (s *authorService) UpdateAuthor(ctx context.Context, actor *models.Author, id uint, req models.UpdateAuthorRequest) (*models.Author, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindAuthor, OwnerID: id}); err != nil {
		return nil, err
	}
	if req.IsActive != nil && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins change is_active", models.ErrPermissionDenied)
	}

	current, err := s.repos.Authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != current.Name {
			taken, err := s.repos.Authors.ExistsByName(ctx, name, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, models.ErrDuplicateIdentity
			}
			fields["name"] = name
		}
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return current, nil
	}

	if err := s.repos.Authors.Update(ctx, id, fields); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateIdentity
		}
		return nil, err
	}
	return s.repos.Authors.GetByID(ctx, id)
}

func (s *authorService) UpdateRole(ctx context.Context, actor *models.Author, id uint, role models.Role) (*models.Author, error) {
	if err := authorize(actor, policy.ActionManageRole, policy.Resource{Kind: policy.KindAuthor, OwnerID: id}); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrInvalidArgument, role)
	}

	err := s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		authors := s.repos.Authors.WithTx(tx)

		current, err := authors.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Role == role {
			return nil
		}
		if err := authors.Update(ctx, id, map[string]interface{}{"role": role}); err != nil {
			return err
		}
		details := fmt.Sprintf("%s -> %s", current.Role, role)
		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventRoleChange, policy.KindAuthor, id, details)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Authors.GetByID(ctx, id)
}

func (s *authorService) DeleteAuthor(ctx context.Context, actor *models.Author, id uint) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindAuthor, OwnerID: id}); err != nil {
		return err
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete your own identity", models.ErrInvalidArgument)
	}

	return s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		author, err := s.repos.Authors.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}

		n, err := s.repos.Articles.WithTx(tx).CountByAuthor(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: author has %d article(s)", models.ErrConflict, n)
		}
		n, err = s.repos.Media.WithTx(tx).CountByUploader(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: author has %d media upload(s)", models.ErrConflict, n)
		}

		comments := s.repos.Comments.WithTx(tx)
		ids, err := comments.IDsByAuthor(ctx, id)
		if err != nil {
			return err
		}
		if _, err := comments.DeleteSubtree(ctx, ids...); err != nil {
			return err
		}
		if err := s.repos.Social.WithTx(tx).DeleteByAuthor(ctx, id); err != nil {
			return err
		}
		if err := s.repos.Authors.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventAuthorDelete, policy.KindAuthor, id, author.Email)
	})
}
