package services

import (
	"context"
	"fmt"
	"time"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"

	"go.uber.org/zap"
)

type AuditLogService interface {
	List(ctx context.Context, actor *models.Author, filter models.AuditLogFilter, page models.Page) ([]models.AuditLog, int64, error)
	Get(ctx context.Context, actor *models.Author, id uint) (*models.AuditLog, error)
	Delete(ctx context.Context, actor *models.Author, id uint) error
	// Purge removes entries older than retention and returns how many went.
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

type auditLogService struct {
	auditRepo    repositories.AuditLogRepository
	maxPageLimit int
	log          *zap.Logger
}

func NewAuditLogService(auditRepo repositories.AuditLogRepository, maxPageLimit int, log *zap.Logger) AuditLogService {
	return &auditLogService{auditRepo: auditRepo, maxPageLimit: maxPageLimit, log: log}
}

// authorize turns a policy decision into the error the HTTP layer expects.
func authorize(actor *models.Author, action policy.Action, res policy.Resource) error {
	if actor == nil {
		return models.ErrUnauthenticated
	}
	if !policy.Can(actor, action, res) {
		return fmt.Errorf("%w: cannot %s %s", models.ErrPermissionDenied, action, res.Kind)
	}
	return nil
}

// audit writes an entry through repo, which callers bind to their
// transaction so the entry commits or rolls back with the change.
func audit(ctx context.Context, repo repositories.AuditLogRepository, actor *models.Author, event string, kind policy.Kind, objectID uint, details string) error {
	entry := &models.AuditLog{
		EventType:  event,
		ObjectType: string(kind),
		Details:    details,
	}
	if actor != nil {
		entry.UserID = &actor.ID
	}
	if objectID != 0 {
		entry.ObjectID = &objectID
	}
	return repo.Create(ctx, entry)
}

func (s *auditLogService) List(ctx context.Context, actor *models.Author, filter models.AuditLogFilter, page models.Page) ([]models.AuditLog, int64, error) {
	if err := authorize(actor, policy.ActionRead, policy.Resource{Kind: policy.KindAuditLog}); err != nil {
		return nil, 0, err
	}
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	return s.auditRepo.List(ctx, filter, page)
}

func (s *auditLogService) Get(ctx context.Context, actor *models.Author, id uint) (*models.AuditLog, error) {
	if err := authorize(actor, policy.ActionRead, policy.Resource{Kind: policy.KindAuditLog}); err != nil {
		return nil, err
	}
	return s.auditRepo.GetByID(ctx, id)
}

func (s *auditLogService) Delete(ctx context.Context, actor *models.Author, id uint) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindAuditLog}); err != nil {
		return err
	}
	return s.auditRepo.Delete(ctx, id)
}

func (s *auditLogService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	n, err := s.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info("audit log purged", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return n, nil
}
