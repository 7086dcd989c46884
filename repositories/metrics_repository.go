package repositories

import (
	"context"
	"errors"
	"time"

	"news-portal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetricsRepository interface {
	WithTx(tx *gorm.DB) MetricsRepository
	Get(ctx context.Context, articleID uint) (*models.ArticleMetrics, error)
	Increment(ctx context.Context, articleID uint, column string) error
	Reset(ctx context.Context, articleID uint) error
	List(ctx context.Context, page models.Page) ([]models.ArticleMetrics, int64, error)
	DeleteByArticle(ctx context.Context, articleID uint) error
}

const (
	MetricLikes  = "likes"
	MetricShares = "shares"
)

type metricsRepository struct {
	db *gorm.DB
}

func NewMetricsRepository(db *gorm.DB) MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) WithTx(tx *gorm.DB) MetricsRepository {
	return &metricsRepository{db: tx}
}

// Get returns zeroed counters when the article has never been liked or shared.
func (r *metricsRepository) Get(ctx context.Context, articleID uint) (*models.ArticleMetrics, error) {
	var m models.ArticleMetrics
	err := r.db.WithContext(ctx).Where("article_id = ?", articleID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ArticleMetrics{ArticleID: articleID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Increment upserts the row and adds one to column in a single statement.
func (r *metricsRepository) Increment(ctx context.Context, articleID uint, column string) error {
	if column != MetricLikes && column != MetricShares {
		return models.ErrInvalidArgument
	}

	row := models.ArticleMetrics{ArticleID: articleID, UpdatedAt: time.Now()}
	if column == MetricLikes {
		row.Likes = 1
	} else {
		row.Shares = 1
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr("article_metrics." + column + " + 1"),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
}

func (r *metricsRepository) Reset(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Model(&models.ArticleMetrics{}).
		Where("article_id = ?", articleID).
		UpdateColumns(map[string]interface{}{"likes": 0, "shares": 0, "updated_at": time.Now()}).Error
}

func (r *metricsRepository) List(ctx context.Context, page models.Page) ([]models.ArticleMetrics, int64, error) {
	var rows []models.ArticleMetrics
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ArticleMetrics{}).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("article_id asc").Scopes(paginate(page)).Find(&rows).Error
	return rows, total, err
}

func (r *metricsRepository) DeleteByArticle(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.ArticleMetrics{}).Error
}
