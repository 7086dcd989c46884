package services

import (
	"context"
	"fmt"
	"strings"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"

	"gorm.io/gorm"
)

type ContentTypeService interface {
	CreateContentType(ctx context.Context, actor *models.Author, req models.CreateContentTypeRequest) (*models.ContentType, error)
	GetContentTypes(ctx context.Context, page models.Page) ([]models.ContentType, int64, error)
	GetContentType(ctx context.Context, id uint) (*models.ContentType, error)
	UpdateContentType(ctx context.Context, actor *models.Author, id uint, req models.UpdateContentTypeRequest) (*models.ContentType, error)
	DeleteContentType(ctx context.Context, actor *models.Author, id uint) error
}

type contentTypeService struct {
	repos        *repositories.Repositories
	maxPageLimit int
}

func NewContentTypeService(repos *repositories.Repositories, maxPageLimit int) ContentTypeService {
	return &contentTypeService{repos: repos, maxPageLimit: maxPageLimit}
}

func (s *contentTypeService) CreateContentType(ctx context.Context, actor *models.Author, req models.CreateContentTypeRequest) (*models.ContentType, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindContentType}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: content type name is empty", models.ErrInvalidArgument)
	}
	exists, err := s.repos.ContentTypes.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: content type already exists", models.ErrConflict)
	}

	ct := &models.ContentType{Name: name, Description: req.Description}
	if err := s.repos.ContentTypes.Create(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

func (s *contentTypeService) GetContentTypes(ctx context.Context, page models.Page) ([]models.ContentType, int64, error) {
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	return s.repos.ContentTypes.List(ctx, page)
}

func (s *contentTypeService) GetContentType(ctx context.Context, id uint) (*models.ContentType, error) {
	return s.repos.ContentTypes.GetByID(ctx, id)
}

func (s *contentTypeService) UpdateContentType(ctx context.Context, actor *models.Author, id uint, req models.UpdateContentTypeRequest) (*models.ContentType, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindContentType}); err != nil {
		return nil, err
	}

	current, err := s.repos.ContentTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: content type name is empty", models.ErrInvalidArgument)
		}
		exists, err := s.repos.ContentTypes.ExistsByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: content type already exists", models.ErrConflict)
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if len(fields) == 0 {
		return current, nil
	}

	if err := s.repos.ContentTypes.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repos.ContentTypes.GetByID(ctx, id)
}

func (s *contentTypeService) DeleteContentType(ctx context.Context, actor *models.Author, id uint) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindContentType}); err != nil {
		return err
	}

	return s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		ct, err := s.repos.ContentTypes.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}

		n, err := s.repos.Articles.WithTx(tx).CountByContentType(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: content type is used by %d article(s)", models.ErrConflict, n)
		}

		if err := s.repos.ContentTypes.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventContentDelete, policy.KindContentType, id, ct.Name)
	})
}
