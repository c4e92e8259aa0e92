package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"posrecon-backend/internal/config"
	"posrecon-backend/internal/jobs"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/scheduler"
	"posrecon-backend/internal/service"
	"posrecon-backend/internal/workspace"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'prune-workspaces', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting cronjob runner...", "log_level", cfg.Log.Level)

	wsStore, closeWorkspaces, err := workspace.Open(cfg.Workspace.Backend, cfg.Workspace.Path)
	if err != nil {
		logger.Error("Failed to open workspace store", "error", err)
		log.Fatalf("Failed to open workspace store: %v", err)
	}
	defer closeWorkspaces()

	// Jobs never submit reports, so no report store is wired.
	reconSvc := service.NewReconciliationService(wsStore, nil, cfg.WorkspaceRetention())
	jobRunner := jobs.NewJobRunner(&jobs.Services{Reconciliation: reconSvc}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
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
	case "prune-workspaces":
		jobRunner.PruneWorkspaces()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - prune-workspaces\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
