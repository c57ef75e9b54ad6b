package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	grpcapi "skirent-backend/internal/api/grpc"
	httpapi "skirent-backend/internal/api/http"
	"skirent-backend/internal/config"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/metrics"
	"skirent-backend/internal/push"
	"skirent-backend/internal/repository/postgres"
	"skirent-backend/internal/reservation"
	"skirent-backend/internal/security"
	"skirent-backend/internal/service"
	"skirent-backend/internal/storage"
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
	logger.Info("Starting Skirent backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http", cfg.GetHTTPAddress(), "grpc", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Reservation rules", "max_days", cfg.Reservation.MaxDays, "timezone", cfg.Reservation.Timezone)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize image storage (local filesystem, served under /uploads)
	logger.Info("Using local image storage", "upload_dir", cfg.Storage.UploadDir)
	images, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize image storage", "error", err)
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize push notifications
	sender, err := newPushSender(cfg)
	if err != nil {
		logger.Error("Failed to initialize push sender", "error", err)
		log.Fatalf("Failed to initialize push sender: %v", err)
	}
	dispatcher := push.NewDispatcher(store.PushTokenRepository, sender, cfg.Push.BatchSize, appMetrics)

	// Reservation core
	policy := reservation.NewPolicy(reservation.SystemClock{Location: cfg.Location()}, cfg.Reservation.MaxDays)
	submitter := reservation.NewSubmitter(store.MaterialRepository, store.ReservationRepository, policy, appMetrics)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	notificationSvc := service.NewNotificationService(store.PushTokenRepository, dispatcher)
	services := httpapi.Services{
		Auth:          service.NewAuthService(store.UserRepository, tokenManager),
		Profile:       service.NewProfileService(store.UserRepository),
		Materials:     service.NewMaterialService(store.MaterialRepository, store.CategoryRepository, images, cfg.Storage.AllowedTypes),
		Clients:       service.NewClientService(store.ClientRepository, store.RoleRepository, notificationSvc),
		Reservations:  service.NewReservationService(submitter, store.ReservationRepository, store.ClientRepository, emailSvc),
		Notifications: notificationSvc,
	}

	// Set up gRPC server
	grpcServer, healthSrv := grpcapi.NewServer(services.Reservations, tokenManager, appMetrics.Registry())
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	// Set up HTTP server
	router := httpapi.NewRouter(services, httpapi.RouterOptions{
		Tokens:         tokenManager,
		Images:         images,
		MaxUploadBytes: cfg.Storage.MaxFileSize << 20,
		Observer:       appMetrics,
		Metrics:        appMetrics.Handler(),
		MetricsPath:    cfg.Metrics.Path,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetHTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	healthSrv.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Servers stopped. Goodbye!")
}

func newPushSender(cfg *config.Config) (push.Sender, error) {
	if cfg.Push.Provider != "fcm" {
		logger.Info("Push notifications are logged only", "provider", cfg.Push.Provider)
		return push.LogSender{}, nil
	}
	logger.Info("Using Firebase Cloud Messaging", "project_id", cfg.Push.ProjectID)
	return push.NewFCMSender(context.Background(), cfg.Push.CredentialsFile, cfg.Push.ProjectID, cfg.Push.RatePerSecond)
}
