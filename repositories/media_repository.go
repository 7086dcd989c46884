package repositories

import (
	"context"

	"news-portal/models"

	"gorm.io/gorm"
)

type MediaRepository interface {
	WithTx(tx *gorm.DB) MediaRepository
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uint) (*models.Media, error)
	ListByArticle(ctx context.Context, articleID uint) ([]models.Media, error)
	List(ctx context.Context, q MediaQuery) ([]models.Media, int64, error)
	CountByUploader(ctx context.Context, authorID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteByArticle(ctx context.Context, articleID uint) error
}

// MediaQuery pages through media. Media attached to drafts is hidden
// unless the draft belongs to Viewer or AllDrafts is set.
type MediaQuery struct {
	Page      models.Page
	Viewer    uint
	AllDrafts bool
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) WithTx(tx *gorm.DB) MediaRepository {
	return &mediaRepository{db: tx}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	return translate(r.db.WithContext(ctx).Create(media).Error)
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, id).Error; err != nil {
		return nil, translate(err)
	}
	return &media, nil
}

func (r *mediaRepository) ListByArticle(ctx context.Context, articleID uint) ([]models.Media, error) {
	var media []models.Media
	err := r.db.WithContext(ctx).Where("article_id = ?", articleID).Order("id asc").Find(&media).Error
	return media, err
}

func (r *mediaRepository) List(ctx context.Context, q MediaQuery) ([]models.Media, int64, error) {
	var media []models.Media
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Media{})
	switch {
	case q.AllDrafts:
	case q.Viewer > 0:
		query = query.Joins("JOIN articles ON articles.id = media.article_id").
			Where("(articles.published_at IS NOT NULL OR articles.author_id = ?)", q.Viewer)
	default:
		query = query.Joins("JOIN articles ON articles.id = media.article_id").
			Where("articles.published_at IS NOT NULL")
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Select("media.*").Order("media.id desc").Scopes(paginate(q.Page)).Find(&media).Error
	return media, total, err
}

func (r *mediaRepository) CountByUploader(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Media{}).Where("uploaded_by_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *mediaRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Media{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mediaRepository) DeleteByArticle(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.Media{}).Error
}
