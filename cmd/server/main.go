package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/wordladder/internal/api"
	"github.com/vytor/wordladder/internal/config"
	"github.com/vytor/wordladder/internal/db"
	"github.com/vytor/wordladder/internal/jobs"
	"github.com/vytor/wordladder/internal/ladder"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/repository/sqlite"
	"github.com/vytor/wordladder/internal/services"
	"github.com/vytor/wordladder/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("WordLadder Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("exam_pass_accuracy=%d", cfg.ExamPassAccuracy)
	log.Debug("hard_card_threshold=%v", cfg.HardCardThreshold)
	log.Debug("demotion_policy=%s", cfg.DemotionPolicy)
	log.Debug("archive_on_graduation=%t", cfg.ArchiveOnGraduation)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("maintenance_interval=%s", cfg.MaintenanceInterval)
	log.Debug("maintenance_workers=%d", cfg.MaintenanceWorkers)
	log.Debug("maintenance_queue=%d", cfg.MaintenanceQueue)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	policy, err := ladder.PolicyByName(cfg.DemotionPolicy)
	if err != nil {
		log.Error("failed to resolve demotion policy: %v", err)
		os.Exit(1)
	}

	// Initialize repositories
	scheduleRepo := sqlite.NewScheduleRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)

	// Initialize services
	scheduleService := services.NewScheduleService(scheduleRepo)
	deckService := services.NewDeckService(deckRepo, scheduleRepo, ladder.New(ladder.WithDemotion(policy)), services.DeckConfig{
		ExamPassAccuracy:    cfg.ExamPassAccuracy,
		HardCardThreshold:   cfg.HardCardThreshold,
		ArchiveOnGraduation: cfg.ArchiveOnGraduation,
	}, nil)
	sessionService := services.NewSessionService(deckRepo, deckService, nil, cfg.SessionTTL, nil)
	cardService := services.NewCardService(cardRepo)

	// Initialize maintenance pool and schedule
	maintenancePool := worker.NewPool("maintenance", cfg.MaintenanceWorkers, cfg.MaintenanceQueue)
	queue := jobs.NewWorkerQueue(maintenancePool, cardService, sessionService, cfg.CleanupBatchSize)
	maintenance := jobs.NewMaintenance(queue, cfg.MaintenanceInterval)

	srv := &api.Server{
		ScheduleService: scheduleService,
		DeckService:     deckService,
		SessionService:  sessionService,
		CardService:     cardService,
		DB:              database,
		AllowedOrigins:  cfg.AllowedOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	maintenancePool.Start(ctx)
	if err := maintenance.Start(); err != nil {
		log.Error("failed to start maintenance scheduler: %v", err)
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping maintenance scheduler")
	maintenance.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Drain queued maintenance jobs before the database closes
	log.Debug("stopping maintenance pool")
	maintenancePool.Stop()
	cancel()

	log.Info("active sessions discarded: %d", sessionService.Active())
	log.Info("===========================================")
	log.Info("WordLadder Server Stopped")
	log.Info("===========================================")
}
