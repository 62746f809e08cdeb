// The cronjob binary runs the database-backed jobs standalone. Queue-hold
// expiry and session sweeps act on in-process state and therefore run
// inside the server's embedded scheduler; here they are no-ops.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"carpso-backend/internal/config"
	"carpso-backend/internal/jobs"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/queue"
	"carpso-backend/internal/repository/postgres"
	"carpso-backend/internal/reservation"
	"carpso-backend/internal/scheduler"
	"carpso-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-pass-expiry-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Carpso Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Notification channels
	emailSender := service.NewSendGridSender(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	notifier := service.NewNotificationService(store.UserRepository, emailSender, nil)

	// This process holds no live queues or sessions; the runner gets
	// empty ones so the in-memory jobs are harmless if invoked.
	queueMgr := queue.NewManager()
	sessions := reservation.NewSessionManager()
	queueSvc := service.NewQueueService(queueMgr, notifier)

	jobRunner := jobs.NewJobRunner(queueMgr, sessions, &jobs.Services{
		Queue:    queueSvc,
		Notifier: notifier,
		PassRepo: store.UserPassRepository,
		RuleRepo: store.PricingRuleRepository,
		UserRepo: store.UserRepository,
	}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-pass-expiry-reminders":
		jobRunner.SendPassExpiryReminders()
	case "expire-queue-holds":
		jobRunner.ExpireQueueHolds()
	case "sweep-stale-sessions":
		jobRunner.SweepStaleSessions()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-pass-expiry-reminders\n")
		fmt.Printf("  - expire-queue-holds\n")
		fmt.Printf("  - sweep-stale-sessions\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
