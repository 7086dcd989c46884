package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, actor *models.Author, req models.CreateCategoryRequest) (*models.Category, error)
	GetCategories(ctx context.Context, page models.Page) ([]models.Category, int64, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, actor *models.Author, id uint, req models.UpdateCategoryRequest) (*models.Category, error)
	// DeleteCategory fails with models.ErrConflict while any article uses it.
	DeleteCategory(ctx context.Context, actor *models.Author, id uint) error
}

type categoryService struct {
	repos        *repositories.Repositories
	maxPageLimit int
	log          *zap.Logger
}

func NewCategoryService(repos *repositories.Repositories, maxPageLimit int, log *zap.Logger) CategoryService {
	return &categoryService{repos: repos, maxPageLimit: maxPageLimit, log: log}
}

// Slugify lower-cases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func (s *categoryService) CreateCategory(ctx context.Context, actor *models.Author, req models.CreateCategoryRequest) (*models.Category, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindCategory}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if name == "" || slug == "" {
		return nil, fmt.Errorf("%w: category name must contain letters or digits", models.ErrInvalidArgument)
	}

	exists, err := s.repos.Categories.ExistsByNameOrSlug(ctx, name, slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: category name or slug already taken", models.ErrConflict)
	}

	category := &models.Category{Name: name, Slug: slug, Description: req.Description}
	if err := s.repos.Categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategories(ctx context.Context, page models.Page) ([]models.Category, int64, error) {
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	return s.repos.Categories.List(ctx, page)
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.repos.Categories.GetByID(ctx, id)
}

func (s *categoryService) UpdateCategory(ctx context.Context, actor *models.Author, id uint, req models.UpdateCategoryRequest) (*models.Category, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindCategory}); err != nil {
		return nil, err
	}

	current, err := s.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	name, slug := current.Name, current.Slug
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name is empty", models.ErrInvalidArgument)
		}
		fields["name"] = name
	}
	if req.Slug != nil {
		slug = Slugify(*req.Slug)
		if slug == "" {
			return nil, fmt.Errorf("%w: slug must contain letters or digits", models.ErrInvalidArgument)
		}
		fields["slug"] = slug
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if len(fields) == 0 {
		return current, nil
	}

	exists, err := s.repos.Categories.ExistsByNameOrSlug(ctx, name, slug, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: category name or slug already taken", models.ErrConflict)
	}

	if err := s.repos.Categories.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repos.Categories.GetByID(ctx, id)
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor *models.Author, id uint) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindCategory}); err != nil {
		return err
	}

	return s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		category, err := s.repos.Categories.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}

		n, err := s.repos.Articles.WithTx(tx).CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: category is used by %d article(s)", models.ErrConflict, n)
		}

		if err := s.repos.Categories.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventCategoryDelete, policy.KindCategory, id, category.Name)
	})
}
