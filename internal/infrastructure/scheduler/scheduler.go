package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/swarnpos/jewelpos-api/internal/application/audit"
	"github.com/swarnpos/jewelpos-api/pkg/config"
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

// Scheduler runs the periodic consistency audit.
type Scheduler struct {
	cron    *cron.Cron
	auditUC *audit.UseCase
	cfg     config.AuditConfig
	log     *logger.Logger
}

// NewScheduler builds the scheduler. The cron spec comes from configuration
// (standard 5-field cron, hourly by default).
func NewScheduler(cfg config.AuditConfig, auditUC *audit.UseCase, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		auditUC: auditUC,
		cfg:     cfg,
		log:     log,
	}
}

// Start registers the audit job and starts the cron loop.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc(s.cfg.CronSpec, s.runAudit)
	if err != nil {
		s.log.Error().Err(err).Str("spec", s.cfg.CronSpec).Msg("failed to schedule stock audit")
		return
	}
	s.log.Info().Str("spec", s.cfg.CronSpec).Msg("stock audit scheduled")
	s.cron.Start()
}

// Stop stops the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.auditUC.Run(ctx); err != nil {
		s.log.Error().Err(err).Msg("stock audit run failed")
	}
}
