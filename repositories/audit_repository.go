package repositories

import (
	"context"
	"time"

	"news-portal/models"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	WithTx(tx *gorm.DB) AuditLogRepository
	Create(ctx context.Context, entry *models.AuditLog) error
	GetByID(ctx context.Context, id uint) (*models.AuditLog, error)
	List(ctx context.Context, filter models.AuditLogFilter, page models.Page) ([]models.AuditLog, int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) WithTx(tx *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: tx}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.EventTime.IsZero() {
		entry.EventTime = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) GetByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	var entry models.AuditLog
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *auditLogRepository) List(ctx context.Context, filter models.AuditLogFilter, page models.Page) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("event_time desc").Order("id desc").Scopes(paginate(page)).Find(&entries).Error
	return entries, total, err
}

func (r *auditLogRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.AuditLog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("event_time < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}
