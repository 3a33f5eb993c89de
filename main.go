package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focoagora/backend/src/config"
	"github.com/focoagora/backend/src/database"
	"github.com/focoagora/backend/src/handlers"
	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/money"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/services"
	"github.com/patrickmn/go-cache"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("FocoAgora backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.MigrationsPath)

	reportCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)

	assumptions := processors.DefaultAssumptions()
	assumptions.DefaultMinimumCash = money.Parse(config.Cfg.DefaultMinimumCash)
	suite := processors.NewSuite(assumptions)

	dashboardService := services.NewDashboardService(database.DB, suite, reportCache)
	ledgerService := services.NewLedgerService(database.DB, suite, dashboardService)
	focusService := services.NewFocusService(database.DB, suite.Ritmo, dashboardService)
	plannerService := services.NewPlannerService(database.DB, processors.DefaultSchedule)
	snapshotService := services.NewSnapshotService(database.DB, dashboardService)

	var reminderService services.ReminderService
	if config.Cfg.SMTPServer != "" {
		reminderService = services.NewReminderService(database.DB, suite.Ritmo, services.NewSMTPMailer(config.Cfg))
	} else {
		logger.L.Warn("SMTP_SERVER not set, ritmo reminders are disabled")
	}

	scheduler, err := services.NewScheduler(config.Cfg.SnapshotCron, config.Cfg.ReminderCron, snapshotService, reminderService)
	if err != nil {
		logger.L.Error("Failed to configure scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	router := handlers.NewRouter(config.Cfg, handlers.Handlers{
		Ledger:    handlers.NewLedgerHandler(ledgerService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Focus:     handlers.NewFocusHandler(focusService),
		Planner:   handlers.NewPlannerHandler(plannerService),
		Snapshot:  handlers.NewSnapshotHandler(snapshotService),
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.L.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	}
	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		logger.L.Warn("Scheduled jobs still running at shutdown")
	}
	if err := database.DB.Close(); err != nil {
		logger.L.Error("Failed to close database", "error", err)
	}
}
