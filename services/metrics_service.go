package services

import (
	"context"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"
)

type MetricsService interface {
	GetMetrics(ctx context.Context, actor *models.Author, articleID uint) (*models.MetricsView, error)
	Like(ctx context.Context, actor *models.Author, articleID uint) (*models.MetricsView, error)
	Share(ctx context.Context, actor *models.Author, articleID uint) (*models.MetricsView, error)
	Reset(ctx context.Context, actor *models.Author, articleID uint) error
	ListMetrics(ctx context.Context, actor *models.Author, page models.Page) ([]models.ArticleMetrics, int64, error)
}

type metricsService struct {
	repos        *repositories.Repositories
	maxPageLimit int
}

func NewMetricsService(repos *repositories.Repositories, maxPageLimit int) MetricsService {
	return &metricsService{repos: repos, maxPageLimit: maxPageLimit}
}

func (s *metricsService) GetMetrics(ctx context.Context, actor *models.Author, articleID uint) (*models.MetricsView, error) {
	article, err := visibleArticle(ctx, s.repos.Articles, actor, articleID)
	if err != nil {
		return nil, err
	}

	counters, err := s.repos.Metrics.Get(ctx, articleID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.CountByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	return &models.MetricsView{
		ArticleID: articleID,
		Views:     article.ViewCount,
		Likes:     counters.Likes,
		Shares:    counters.Shares,
		Comments:  comments,
	}, nil
}

func (s *metricsService) Like(ctx context.Context, actor *models.Author, articleID uint) (*models.MetricsView, error) {
	return s.increment(ctx, actor, articleID, repositories.MetricLikes)
}

func (s *metricsService) Share(ctx context.Context, actor *models.Author, articleID uint) (*models.MetricsView, error) {
	return s.increment(ctx, actor, articleID, repositories.MetricShares)
}

func (s *metricsService) increment(ctx context.Context, actor *models.Author, articleID uint, column string) (*models.MetricsView, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindMetrics}); err != nil {
		return nil, err
	}
	if _, err := visibleArticle(ctx, s.repos.Articles, actor, articleID); err != nil {
		return nil, err
	}
	if err := s.repos.Metrics.Increment(ctx, articleID, column); err != nil {
		return nil, err
	}
	return s.GetMetrics(ctx, actor, articleID)
}

func (s *metricsService) Reset(ctx context.Context, actor *models.Author, articleID uint) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindMetrics}); err != nil {
		return err
	}
	if _, err := s.repos.Articles.GetByID(ctx, articleID); err != nil {
		return err
	}
	return s.repos.Metrics.Reset(ctx, articleID)
}

func (s *metricsService) ListMetrics(ctx context.Context, actor *models.Author, page models.Page) ([]models.ArticleMetrics, int64, error) {
	if err := authorize(actor, policy.ActionRead, policy.Resource{Kind: policy.KindMetrics}); err != nil {
		return nil, 0, err
	}
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	return s.repos.Metrics.List(ctx, page)
}
