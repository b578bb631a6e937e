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

	_ "github.com/lib/pq"

	httpapi "spaceshare-backend/internal/api/http"
	"spaceshare-backend/internal/config"
	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/jobs"
	"spaceshare-backend/internal/ledger"
	"spaceshare-backend/internal/logger"
	"spaceshare-backend/internal/repository/postgres"
	"spaceshare-backend/internal/scheduler"
	"spaceshare-backend/internal/security"
	"spaceshare-backend/internal/service"
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
	logger.Info("Starting SpaceShare backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
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

	// Apply schema migrations
	if err := postgres.MigrateUp(cfg.GetDatabaseConnectionString()); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize the ledger engine, restoring persisted state if any
	engine, err := ledger.New(domain.ParticipantID(cfg.Ledger.PlatformAccount), cfg.Ledger.InitialRates)
	if err != nil {
		logger.Error("Failed to initialize ledger", "error", err)
		log.Fatalf("Failed to initialize ledger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	snap, err := store.SnapshotRepository.Load(ctx)
	cancel()
	if err != nil {
		logger.Error("Failed to load snapshot", "error", err)
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	if snap != nil {
		if err := engine.Restore(*snap); err != nil {
			logger.Error("Failed to restore snapshot", "error", err)
			log.Fatalf("Failed to restore snapshot: %v", err)
		}
		logger.Info("Ledger restored from snapshot", "taken_at", snap.TakenAt, "accounts", len(snap.Balances))
	} else {
		logger.Info("No snapshot found, starting with a fresh ledger")
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute)

	// Initialize Services
	authSvc := service.NewAuthService(tokenManager, cfg.Auth.OwnerSecretHash)
	marketSvc := service.NewMarketService(engine, store.JournalRepository)
	ratesSvc := service.NewRatesService(engine, store.JournalRepository)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(engine, store.SnapshotRepository, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	// Set up HTTP server
	handler := httpapi.NewHandler(authSvc, marketSvc, ratesSvc)
	router := httpapi.NewRouter(handler, tokenManager)

	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown: stop taking requests, stop the scheduler, and
	// persist a final snapshot so nothing committed in memory is lost.
	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	cronScheduler.Stop()
	jobRunner.PersistSnapshot()
	logger.Info("Shutdown complete. Goodbye!")
}
