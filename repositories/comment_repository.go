package repositories

import (
	"context"

	"news-portal/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID uint, page models.Page) ([]models.Comment, int64, error)
	CountByArticle(ctx context.Context, articleID uint) (int64, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteSubtree(ctx context.Context, rootIDs ...uint) (int64, error)
	IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	DeleteByArticle(ctx context.Context, articleID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// ListByArticle returns the oldest comment first so threads read top-down.
func (r *commentRepository) ListByArticle(ctx context.Context, articleID uint, page models.Page) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("article_id = ?", articleID).
		Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at asc").Order("id asc").Scopes(paginate(page)).Find(&comments).Error
	return comments, total, err
}

func (r *commentRepository) CountByArticle(ctx context.Context, articleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

func (r *commentRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return translate(r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Updates(fields).Error)
}

// DeleteSubtree removes the given comments and every reply beneath them.
func (r *commentRepository) DeleteSubtree(ctx context.Context, rootIDs ...uint) (int64, error) {
	if len(rootIDs) == 0 {
		return 0, nil
	}
	db := r.db.WithContext(ctx)

	all := append([]uint(nil), rootIDs...)
	frontier := rootIDs
	for len(frontier) > 0 {
		var children []uint
		if err := db.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return 0, err
		}
		all = append(all, children...)
		frontier = children
	}

	res := db.Where("id IN ?", all).Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepository) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) DeleteByArticle(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.Comment{}).Error
}
