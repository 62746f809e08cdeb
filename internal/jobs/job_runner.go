package jobs

import (
	"carpso-backend/internal/config"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/queue"
	"carpso-backend/internal/repository"
	"carpso-backend/internal/reservation"
	"carpso-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	queueMgr *queue.Manager
	sessions *reservation.SessionManager
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Queue       service.QueueService
	Reservation service.ReservationService
	Notifier    service.NotificationService
	PassRepo    repository.UserPassRepository
	RuleRepo    repository.PricingRuleRepository
	UserRepo    repository.UserRepository
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(queueMgr *queue.Manager, sessions *reservation.SessionManager, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		queueMgr: queueMgr,
		sessions: sessions,
		services: services,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllJobs() {
	jr.ExpireQueueHolds()
	jr.SweepStaleSessions()
	jr.SendPassExpiryReminders()
}
