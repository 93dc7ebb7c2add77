package scheduler

import (
	"context"
	"log/slog"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/scheduler/job"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cfg              *config.AppConfig
	cron             *cron.Cron
	propertyAdapter  *adapter.PropertyThreadAdapter
	communityAdapter *adapter.CommunityThreadAdapter
}

func New(cfg *config.AppConfig, propertyAdapter *adapter.PropertyThreadAdapter, communityAdapter *adapter.CommunityThreadAdapter) *Scheduler {
	return &Scheduler{
		cfg:              cfg,
		cron:             cron.New(),
		propertyAdapter:  propertyAdapter,
		communityAdapter: communityAdapter,
	}
}

func (s *Scheduler) Start() {
	slog.Info("Starting Scheduler...")

	s.registerJobs()

	s.cron.Start()
	slog.Info("Scheduler started successfully")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) registerJobs() {
	_, err := s.cron.AddFunc(s.cfg.RetentionSweepCron, func() {
		slog.Info("Starting Retention Sweep Job")
		ctx := context.Background()
		if err := job.RunRetentionSweep(ctx, s.cfg, s.propertyAdapter, s.communityAdapter); err != nil {
			slog.Error("Retention Sweep Job failed", "error", err)
		} else {
			slog.Info("Retention Sweep Job completed")
		}
	})
	if err != nil {
		slog.Error("Failed to register Retention Sweep job", "error", err)
	} else {
		slog.Info("Registered Retention Sweep Job", "schedule", s.cfg.RetentionSweepCron)
	}
}
