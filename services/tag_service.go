package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TagService interface {
	CreateTag(ctx context.Context, actor *models.Author, req models.CreateTagRequest) (*models.Tag, error)
	GetTags(ctx context.Context, page models.Page) ([]models.Tag, int64, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	UpdateTag(ctx context.Context, actor *models.Author, id uint, req models.UpdateTagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, actor *models.Author, id uint) error
	// RefreshStats recomputes usage counts and trending scores for every tag.
	RefreshStats(ctx context.Context) error
}

type tagService struct {
	repos        *repositories.Repositories
	maxPageLimit int
	log          *zap.Logger
	now          func() time.Time
}

func NewTagService(repos *repositories.Repositories, maxPageLimit int, log *zap.Logger) TagService {
	return &tagService{repos: repos, maxPageLimit: maxPageLimit, log: log, now: time.Now}
}

func (s *tagService) CreateTag(ctx context.Context, actor *models.Author, req models.CreateTagRequest) (*models.Tag, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindTag}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is empty", models.ErrInvalidArgument)
	}

	// Check if tag already exists
	exists, err := s.repos.Tags.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: tag already exists", models.ErrConflict)
	}

	tag := &models.Tag{Name: name}
	if err := s.repos.Tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTags(ctx context.Context, page models.Page) ([]models.Tag, int64, error) {
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	return s.repos.Tags.List(ctx, page)
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.repos.Tags.GetByID(ctx, id)
}

func (s *tagService) UpdateTag(ctx context.Context, actor *models.Author, id uint, req models.UpdateTagRequest) (*models.Tag, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindTag}); err != nil {
		return nil, err
	}

	if _, err := s.repos.Tags.GetByID(ctx, id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is empty", models.ErrInvalidArgument)
	}
	exists, err := s.repos.Tags.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: tag already exists", models.ErrConflict)
	}

	if err := s.repos.Tags.Update(ctx, id, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	return s.repos.Tags.GetByID(ctx, id)
}

func (s *tagService) DeleteTag(ctx context.Context, actor *models.Author, id uint) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindTag}); err != nil {
		return err
	}

	return s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		tag, err := s.repos.Tags.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}

		n, err := s.repos.Articles.WithTx(tx).CountByTag(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: tag is used by %d article(s)", models.ErrConflict, n)
		}

		if err := s.repos.Tags.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventTagDelete, policy.KindTag, id, tag.Name)
	})
}

func (s *tagService) RefreshStats(ctx context.Context) error {
	usage, err := s.repos.Articles.CountPublishedByTag(ctx)
	if err != nil {
		return err
	}

	tags, err := s.repos.Tags.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	now := s.now()
	for i := range tags {
		tags[i].Rescore(usage[tags[i].ID], now)
	}

	if err := s.repos.Tags.BulkUpdate(ctx, tags); err != nil {
		return err
	}
	s.log.Info("tag stats refreshed", zap.Int("tags", len(tags)))
	return nil
}
