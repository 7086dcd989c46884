// Package jobs runs the periodic maintenance tasks.
package jobs

import (
	"context"
	"time"

	"news-portal/config"
	"news-portal/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 5 * time.Minute

// Scheduler refreshes tag statistics and purges old audit entries.
type Scheduler struct {
	cron      *cron.Cron
	tags      services.TagService
	audit     services.AuditLogService
	retention time.Duration
	log       *zap.Logger
}

// New registers both jobs. An empty schedule disables that job.
func New(cfg *config.Config, tags services.TagService, audit services.AuditLogService, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		tags:      tags,
		audit:     audit,
		retention: time.Duration(cfg.LogRetentionDays) * 24 * time.Hour,
		log:       log,
	}

	if cfg.CronTagStats != "" {
		if _, err := s.cron.AddFunc(cfg.CronTagStats, s.RefreshTagStats); err != nil {
			return nil, err
		}
	}
	if cfg.CronLogRetention != "" && cfg.LogRetentionDays > 0 {
		if _, err := s.cron.AddFunc(cfg.CronLogRetention, s.PurgeAuditLog); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) RefreshTagStats() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.log.Info("Running tag stats job...")
	if err := s.tags.RefreshStats(ctx); err != nil {
		s.log.Error("Tag stats job failed", zap.Error(err))
	}
}

func (s *Scheduler) PurgeAuditLog() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.audit.Purge(ctx, s.retention)
	if err != nil {
		s.log.Error("Audit retention job failed", zap.Error(err))
		return
	}
	s.log.Info("Audit retention job completed", zap.Int64("deleted", n))
}
