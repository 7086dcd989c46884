package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"
)

type SocialIntegrationService interface {
	// ListIntegrations returns the actor's own integrations; admins see all.
	ListIntegrations(ctx context.Context, actor *models.Author, page models.Page) ([]models.SocialIntegration, int64, error)
	GetIntegration(ctx context.Context, actor *models.Author, id uint) (*models.SocialIntegration, error)
	CreateIntegration(ctx context.Context, actor *models.Author, req models.CreateSocialIntegrationRequest) (*models.SocialIntegration, error)
	UpdateIntegration(ctx context.Context, actor *models.Author, id uint, req models.UpdateSocialIntegrationRequest) (*models.SocialIntegration, error)
	DeleteIntegration(ctx context.Context, actor *models.Author, id uint) error
}

type socialIntegrationService struct {
	repos        *repositories.Repositories
	maxPageLimit int
}

func NewSocialIntegrationService(repos *repositories.Repositories, maxPageLimit int) SocialIntegrationService {
	return &socialIntegrationService{repos: repos, maxPageLimit: maxPageLimit}
}

func (s *socialIntegrationService) ListIntegrations(ctx context.Context, actor *models.Author, page models.Page) ([]models.SocialIntegration, int64, error) {
	if actor == nil {
		return nil, 0, models.ErrUnauthenticated
	}
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}

	authorID := actor.ID
	if actor.Role == models.RoleAdmin {
		authorID = 0
	}
	return s.repos.Social.List(ctx, authorID, page)
}

// load hides integrations that belong to someone else.
func (s *socialIntegrationService) load(ctx context.Context, actor *models.Author, id uint, action policy.Action) (*models.SocialIntegration, error) {
	if actor == nil {
		return nil, models.ErrUnauthenticated
	}
	integration, err := s.repos.Social.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, action, policy.Resource{Kind: policy.KindSocialIntegration, OwnerID: integration.AuthorID}) {
		return nil, models.ErrNotFound
	}
	return integration, nil
}

func (s *socialIntegrationService) GetIntegration(ctx context.Context, actor *models.Author, id uint) (*models.SocialIntegration, error) {
	return s.load(ctx, actor, id, policy.ActionRead)
}

func (s *socialIntegrationService) CreateIntegration(ctx context.Context, actor *models.Author, req models.CreateSocialIntegrationRequest) (*models.SocialIntegration, error) {
	if actor == nil {
		return nil, models.ErrUnauthenticated
	}

	authorID := actor.ID
	if req.AuthorID != nil && *req.AuthorID != 0 {
		authorID = *req.AuthorID
	}
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindSocialIntegration, OwnerID: authorID}); err != nil {
		return nil, err
	}
	if !req.Platform.Valid() {
		return nil, fmt.Errorf("%w: unknown platform %q", models.ErrInvalidArgument, req.Platform)
	}
	if authorID != actor.ID {
		if _, err := s.repos.Authors.GetByID(ctx, authorID); err != nil {
			return nil, referenceErr(err, "author")
		}
	}

	integration := &models.SocialIntegration{
		AuthorID:   authorID,
		Platform:   req.Platform,
		AccountRef: strings.TrimSpace(req.AccountRef),
		IsActive:   true,
	}
	if req.IsActive != nil {
		integration.IsActive = *req.IsActive
	}
	if err := s.repos.Social.Create(ctx, integration); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: account already linked", models.ErrConflict)
		}
		return nil, err
	}
	return integration, nil
}

func (s *socialIntegrationService) UpdateIntegration(ctx context.Context, actor *models.Author, id uint, req models.UpdateSocialIntegrationRequest) (*models.SocialIntegration, error) {
	current, err := s.load(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.AccountRef != nil {
		fields["account_ref"] = strings.TrimSpace(*req.AccountRef)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return current, nil
	}

	if err := s.repos.Social.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repos.Social.GetByID(ctx, id)
}

func (s *socialIntegrationService) DeleteIntegration(ctx context.Context, actor *models.Author, id uint) error {
	if _, err := s.load(ctx, actor, id, policy.ActionDelete); err != nil {
		return err
	}
	return s.repos.Social.Delete(ctx, id)
}
