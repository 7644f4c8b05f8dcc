package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crewclock/crewclock/internal/config"
	"github.com/crewclock/crewclock/internal/database"
	"github.com/crewclock/crewclock/internal/handler"
	"github.com/crewclock/crewclock/internal/logger"
	"github.com/crewclock/crewclock/internal/repository"
	"github.com/crewclock/crewclock/internal/router"
	"github.com/crewclock/crewclock/internal/service"
	"github.com/crewclock/crewclock/internal/webhook"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/local.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting crewclock server",
		zap.String("env", cfg.Env),
		zap.String("config_path", *configPath),
	)

	db, err := database.New(cfg.StoragePath, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	entryRepo := repository.NewTimeEntryRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	jobRepo := repository.NewJobRepository(db.DB)
	siteRepo := repository.NewSiteRepository(db.DB)

	webhookClient := webhook.NewClient(
		time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second,
		log.Logger,
	)

	clockService := service.NewClockService(entryRepo, userRepo)
	timesheetService := service.NewTimesheetService(entryRepo, jobRepo, siteRepo, userRepo, log.Logger)
	submissionService := service.NewSubmissionService(
		timesheetService,
		userRepo,
		webhookClient,
		cfg.Export.Dir,
		log.Logger,
	)

	clockHandler := handler.NewClockHandler(clockService, log.Logger)
	timesheetHandler := handler.NewTimesheetHandler(timesheetService, submissionService, log.Logger)
	adminHandler := handler.NewAdminHandler(jobRepo, siteRepo, userRepo, log.Logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router.New(clockHandler, timesheetHandler, adminHandler, log.Logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("crewclock server stopped")
}
