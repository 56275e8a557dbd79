package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/service"
)

// Scheduler runs the background jobs: the competition maintenance sweep
// and the expiry of stale in-memory conversation state.
type Scheduler struct {
	cron        *cron.Cron
	maintenance *service.Maintenance
	drafts      *service.DraftService
	pending     *service.PendingJoins
}

func NewScheduler(maintenance *service.Maintenance, drafts *service.DraftService, pending *service.PendingJoins) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		maintenance: maintenance,
		drafts:      drafts,
		pending:     pending,
	}
}

// Start registers and launches the jobs. The passed context bounds every
// job run so a shutdown interrupts in-flight sweeps.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", config.SweepInterval), func() {
		s.maintenance.Tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule maintenance sweep: %w", err)
	}

	_, err = s.cron.AddFunc(fmt.Sprintf("@every %s", config.DraftTTL), func() {
		s.drafts.Sweep(config.DraftTTL)
		s.pending.Sweep(config.DraftTTL)
	})
	if err != nil {
		return fmt.Errorf("schedule state sweep: %w", err)
	}

	s.cron.Start()
	slog.Info("scheduler started", "sweep_interval", config.SweepInterval)
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}
