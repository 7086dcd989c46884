package repositories

import (
	"context"

	"news-portal/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
	List(ctx context.Context, page models.Page) ([]models.Tag, int64, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	BulkUpdate(ctx context.Context, tags []models.Tag) error
	Delete(ctx context.Context, id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return translate(r.db.WithContext(ctx).Create(tag).Error)
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *tagRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *tagRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// List orders by trending score so the hottest tags come first.
func (r *tagRepository) List(ctx context.Context, page models.Page) ([]models.Tag, int64, error) {
	var tags []models.Tag
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Tag{}).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("trending_score desc").Order("name asc").Scopes(paginate(page)).Find(&tags).Error
	return tags, total, err
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("id asc").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return translate(r.db.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", id).Updates(fields).Error)
}

func (r *tagRepository) BulkUpdate(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&tags).Error
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
