package scheduler

import (
	"time"

	"carpso-backend/internal/jobs"
	"carpso-backend/internal/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Expire queue holds whose notified head never claimed the spot
	_, err := s.cron.AddFunc(cfg.ExpireQueueHolds, s.jobs.ExpireQueueHolds)
	if err != nil {
		logger.Error("Failed to register ExpireQueueHolds job", "error", err)
	}

	// Sweep reservation sessions with no live client behind them
	_, err = s.cron.AddFunc(cfg.SweepStaleSessions, s.jobs.SweepStaleSessions)
	if err != nil {
		logger.Error("Failed to register SweepStaleSessions job", "error", err)
	}

	// Remind users about passes expiring within 24 hours
	_, err = s.cron.AddFunc(cfg.SendPassExpiryReminders, s.jobs.SendPassExpiryReminders)
	if err != nil {
		logger.Error("Failed to register SendPassExpiryReminders job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
