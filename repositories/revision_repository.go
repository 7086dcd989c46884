package repositories

import (
	"context"

	"news-portal/models"

	"gorm.io/gorm"
)

type RevisionRepository interface {
	WithTx(tx *gorm.DB) RevisionRepository
	Create(ctx context.Context, revision *models.Revision) error
	ListByArticle(ctx context.Context, articleID uint) ([]models.Revision, error)
	DeleteByArticle(ctx context.Context, articleID uint) error
}

type revisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) WithTx(tx *gorm.DB) RevisionRepository {
	return &revisionRepository{db: tx}
}

func (r *revisionRepository) Create(ctx context.Context, revision *models.Revision) error {
	return translate(r.db.WithContext(ctx).Create(revision).Error)
}

// ListByArticle returns the newest revision first.
func (r *revisionRepository) ListByArticle(ctx context.Context, articleID uint) ([]models.Revision, error) {
	var revisions []models.Revision
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("edited_at desc").
		Order("version_num desc").
		Find(&revisions).Error
	return revisions, err
}

func (r *revisionRepository) DeleteByArticle(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.Revision{}).Error
}
