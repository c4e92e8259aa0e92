package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "posrecon-backend/internal/api/http"
	"posrecon-backend/internal/config"
	"posrecon-backend/internal/jobs"
	"posrecon-backend/internal/lock"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/repository/postgres"
	"posrecon-backend/internal/scheduler"
	"posrecon-backend/internal/security"
	"posrecon-backend/internal/service"
	"posrecon-backend/internal/workspace"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("scheduler", true, "Run the workspace pruning schedule in-process")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting POS reconciliation backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		cancel()
		logger.Error("Failed to migrate database", "error", err)
		log.Fatalf("Failed to migrate database: %v", err)
	}
	cancel()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	wsStore, closeWorkspaces, err := workspace.Open(cfg.Workspace.Backend, cfg.Workspace.Path)
	if err != nil {
		logger.Error("Failed to open workspace store", "error", err)
		log.Fatalf("Failed to open workspace store: %v", err)
	}
	defer closeWorkspaces()

	// Initialize submission lock
	var locker lock.Locker
	switch cfg.Lock.Backend {
	case "redis":
		rdb, err := lock.Connect(context.Background(), cfg.Lock.RedisAddr, cfg.Lock.RedisPassword, cfg.Lock.RedisDB)
		if err != nil {
			logger.Error("Failed to connect to redis", "address", cfg.Lock.RedisAddr, "error", err)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL())
		logger.Info("Using redis submission lock", "address", cfg.Lock.RedisAddr)
	default:
		locker = lock.NewMemoryLocker(cfg.LockTTL())
		logger.Info("Using in-process submission lock")
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.AccessTokenTTL())

	// Initialize Services
	authSvc := service.NewAuthService(store.ManagerRepository, tokenManager)
	managerSvc := service.NewManagerService(store.ManagerRepository)
	tenantSvc := service.NewTenantService(store.TenantRepository)
	reportSvc := service.NewReportService(store.ReportRepository, locker)
	reconSvc := service.NewReconciliationService(wsStore, reportSvc, cfg.WorkspaceRetention())

	if err := authSvc.EnsureBootstrapManager(context.Background(), cfg.Auth.BootstrapName, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword); err != nil {
		logger.Error("Failed to create bootstrap account manager", "error", err)
		log.Fatalf("Failed to create bootstrap account manager: %v", err)
	}

	// Scheduler
	var cronScheduler *scheduler.Scheduler
	if *withScheduler {
		jobRunner := jobs.NewJobRunner(&jobs.Services{Reconciliation: reconSvc}, cfg)
		cronScheduler, err = scheduler.NewScheduler(jobRunner)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	handler := httpapi.NewRouter(httpapi.Services{
		Auth:           authSvc,
		Managers:       managerSvc,
		Tenants:        tenantSvc,
		Reports:        reportSvc,
		Reconciliation: reconSvc,
		Tokens:         tokenManager,
		MaxUploadBytes: cfg.Import.MaxUploadMB << 20,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
