package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "carpso-backend/internal/api/http"
	"carpso-backend/internal/config"
	"carpso-backend/internal/jobs"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/pricing"
	"carpso-backend/internal/queue"
	"carpso-backend/internal/repository/postgres"
	"carpso-backend/internal/reservation"
	"carpso-backend/internal/scheduler"
	"carpso-backend/internal/security"
	"carpso-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Carpso Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Notification channels
	emailSender := service.NewSendGridSender(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	var pushSender service.PushSender
	if cfg.Push.Enabled {
		pushSender, err = service.NewFCMSender(context.Background(), cfg.Push.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM, continuing with email only", "error", err)
		}
	}
	notifier := service.NewNotificationService(store.UserRepository, emailSender, pushSender)

	// In-process state: spot wait-lists and reservation sessions
	queueMgr := queue.NewManager()
	sessions := reservation.NewSessionManager()
	go sessions.Run(time.Second)

	// Initialize Services
	pricingSvc := service.NewPricingService(
		store.PricingRuleRepository,
		store.UserPassRepository,
		store.ParkingLotRepository,
		pricing.DefaultEventTable(),
		cfg.Pricing.DefaultHourlyRate,
	)
	passSvc := service.NewPassService(store.PricingRuleRepository, store.UserPassRepository)
	recordSvc := service.NewRecordService(store.ParkingRecordRepository)
	queueSvc := service.NewQueueService(queueMgr, notifier)
	reservationSvc := service.NewReservationService(
		sessions,
		store.ParkingLotRepository,
		store.UserRepository,
		pricingSvc,
		recordSvc,
		queueSvc,
		cfg.Reservation.SpotTimeoutSeconds,
	)

	// Scheduled jobs run inside the server process: queue holds and
	// reservation sessions live in memory here.
	jobRunner := jobs.NewJobRunner(queueMgr, sessions, &jobs.Services{
		Queue:       queueSvc,
		Reservation: reservationSvc,
		Notifier:    notifier,
		PassRepo:    store.UserPassRepository,
		RuleRepo:    store.PricingRuleRepository,
		UserRepo:    store.UserRepository,
	}, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	// Set up HTTP server
	server := httpapi.NewServer(pricingSvc, passSvc, recordSvc, queueSvc, reservationSvc, tokenManager)
	httpServer := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: server.Router(),
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	cronScheduler.Stop()
	sessions.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
