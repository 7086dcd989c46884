package repositories

import (
	"context"

	"news-portal/models"

	"gorm.io/gorm"
)

type SocialIntegrationRepository interface {
	WithTx(tx *gorm.DB) SocialIntegrationRepository
	Create(ctx context.Context, integration *models.SocialIntegration) error
	GetByID(ctx context.Context, id uint) (*models.SocialIntegration, error)
	List(ctx context.Context, authorID uint, page models.Page) ([]models.SocialIntegration, int64, error)
	ListActiveByAuthor(ctx context.Context, authorID uint) ([]models.SocialIntegration, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	DeleteByAuthor(ctx context.Context, authorID uint) error
}

type socialIntegrationRepository struct {
	db *gorm.DB
}

func NewSocialIntegrationRepository(db *gorm.DB) SocialIntegrationRepository {
	return &socialIntegrationRepository{db: db}
}

func (r *socialIntegrationRepository) WithTx(tx *gorm.DB) SocialIntegrationRepository {
	return &socialIntegrationRepository{db: tx}
}

func (r *socialIntegrationRepository) Create(ctx context.Context, integration *models.SocialIntegration) error {
	return translate(r.db.WithContext(ctx).Create(integration).Error)
}

func (r *socialIntegrationRepository) GetByID(ctx context.Context, id uint) (*models.SocialIntegration, error) {
	var integration models.SocialIntegration
	if err := r.db.WithContext(ctx).First(&integration, id).Error; err != nil {
		return nil, translate(err)
	}
	return &integration, nil
}

// List returns every integration when authorID is zero.
func (r *socialIntegrationRepository) List(ctx context.Context, authorID uint, page models.Page) ([]models.SocialIntegration, int64, error) {
	var integrations []models.SocialIntegration
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SocialIntegration{})
	if authorID > 0 {
		query = query.Where("author_id = ?", authorID)
	}
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id asc").Scopes(paginate(page)).Find(&integrations).Error
	return integrations, total, err
}

func (r *socialIntegrationRepository) ListActiveByAuthor(ctx context.Context, authorID uint) ([]models.SocialIntegration, error) {
	var integrations []models.SocialIntegration
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND is_active = ?", authorID, true).
		Order("id asc").
		Find(&integrations).Error
	return integrations, err
}

func (r *socialIntegrationRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return translate(r.db.WithContext(ctx).Model(&models.SocialIntegration{}).Where("id = ?", id).Updates(fields).Error)
}

func (r *socialIntegrationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SocialIntegration{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *socialIntegrationRepository) DeleteByAuthor(ctx context.Context, authorID uint) error {
	return r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.SocialIntegration{}).Error
}
