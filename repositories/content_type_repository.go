package repositories

import (
	"context"

	"news-portal/models"

	"gorm.io/gorm"
)

type ContentTypeRepository interface {
	WithTx(tx *gorm.DB) ContentTypeRepository
	Create(ctx context.Context, contentType *models.ContentType) error
	GetByID(ctx context.Context, id uint) (*models.ContentType, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	List(ctx context.Context, page models.Page) ([]models.ContentType, int64, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type contentTypeRepository struct {
	db *gorm.DB
}

func NewContentTypeRepository(db *gorm.DB) ContentTypeRepository {
	return &contentTypeRepository{db: db}
}

func (r *contentTypeRepository) WithTx(tx *gorm.DB) ContentTypeRepository {
	return &contentTypeRepository{db: tx}
}

func (r *contentTypeRepository) Create(ctx context.Context, contentType *models.ContentType) error {
	return translate(r.db.WithContext(ctx).Create(contentType).Error)
}

func (r *contentTypeRepository) GetByID(ctx context.Context, id uint) (*models.ContentType, error) {
	var contentType models.ContentType
	if err := r.db.WithContext(ctx).First(&contentType, id).Error; err != nil {
		return nil, translate(err)
	}
	return &contentType, nil
}

func (r *contentTypeRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContentType{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *contentTypeRepository) List(ctx context.Context, page models.Page) ([]models.ContentType, int64, error) {
	var contentTypes []models.ContentType
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ContentType{}).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("name asc").Scopes(paginate(page)).Find(&contentTypes).Error
	return contentTypes, total, err
}

func (r *contentTypeRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return translate(r.db.WithContext(ctx).Model(&models.ContentType{}).Where("id = ?", id).Updates(fields).Error)
}

func (r *contentTypeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ContentType{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
