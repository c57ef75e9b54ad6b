package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"skirent-backend/internal/config"
	"skirent-backend/internal/jobs"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/metrics"
	"skirent-backend/internal/push"
	"skirent-backend/internal/repository/postgres"
	"skirent-backend/internal/scheduler"
	"skirent-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'finish-expired-reservations', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Skirent Cronjob Runner...", "log_level", cfg.Log.Level, "timezone", cfg.Reservation.Timezone)

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
	appMetrics := metrics.New()

	// Initialize Services
	var sender push.Sender = push.LogSender{}
	if cfg.Push.Provider == "fcm" {
		sender, err = push.NewFCMSender(context.Background(), cfg.Push.CredentialsFile, cfg.Push.ProjectID, cfg.Push.RatePerSecond)
		if err != nil {
			logger.Error("Failed to initialize push sender", "error", err)
			log.Fatalf("Failed to initialize push sender: %v", err)
		}
	}
	dispatcher := push.NewDispatcher(store.PushTokenRepository, sender, cfg.Push.BatchSize, appMetrics)
	notificationSvc := service.NewNotificationService(store.PushTokenRepository, dispatcher)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store.ReservationRepository, notificationSvc, nil, appMetrics, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := runJobOnce(jobRunner, *runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

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

// runJobOnce runs a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	switch jobName {
	case "finish-expired-reservations":
		return jobRunner.FinishExpiredReservations()
	case "remind-upcoming-reservations":
		return jobRunner.RemindUpcomingReservations()
	case "all-daily":
		return jobRunner.RunAllDailyJobs()
	default:
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - finish-expired-reservations\n")
		fmt.Printf("  - remind-upcoming-reservations\n")
		fmt.Printf("  - all-daily\n")
		return fmt.Errorf("unknown job name: %s", jobName)
	}
}
