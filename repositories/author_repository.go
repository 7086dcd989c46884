package repositories

import (
	"context"

	"news-portal/models"

	"gorm.io/gorm"
)

type AuthorRepository interface {
	WithTx(tx *gorm.DB) AuthorRepository
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	GetByEmail(ctx context.Context, email string) (*models.Author, error)
	ExistsByEmailOrName(ctx context.Context, email, name string) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	List(ctx context.Context, page models.Page) ([]models.Author, int64, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) WithTx(tx *gorm.DB) AuthorRepository {
	return &authorRepository{db: tx}
}

func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	return translate(r.db.WithContext(ctx).Create(author).Error)
}

func (r *authorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *authorRepository) GetByEmail(ctx context.Context, email string) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&author).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *authorRepository) ExistsByEmailOrName(ctx context.Context, email, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Author{}).
		Where("email = ? OR name = ?", email, name).
		Count(&count).Error
	return count > 0, err
}

func (r *authorRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Author{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *authorRepository) List(ctx context.Context, page models.Page) ([]models.Author, int64, error) {
	var authors []models.Author
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Author{}).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id asc").Scopes(paginate(page)).Find(&authors).Error
	return authors, total, err
}

func (r *authorRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.Author{}).Where("id = ?", id).Updates(fields).Error
	return translate(err)
}

func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Author{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
