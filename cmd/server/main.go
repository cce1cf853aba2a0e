package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homefront/server/config"
	"homefront/server/internal/api"
	"homefront/server/internal/database"
	"homefront/server/internal/geocoding"
	"homefront/server/internal/processor"
	"homefront/server/internal/provider"
	"homefront/server/internal/queue"
	"homefront/server/internal/scheduler"
	"homefront/server/internal/tools"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warnf("Unknown log level %q, using info", cfg.Log.Level)
	}

	demoData, err := config.LoadDemoData()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load demo dataset")
	}
	demo := provider.NewDemoClient(demoData, cfg.Provider.RadiusMiles)

	var live provider.Client
	providerName := "demo"
	if cfg.UsingDemoProvider() {
		logger.Warn("RAPIDAPI_KEY not set, serving demo data only")
	} else {
		rapidAPI := provider.NewRapidAPIClient(provider.Options{
			BaseURL:     cfg.Provider.BaseURL,
			Host:        cfg.Provider.Host,
			APIKey:      cfg.Provider.APIKey,
			Timeout:     cfg.Provider.Timeout,
			RadiusMiles: cfg.Provider.RadiusMiles,
		}, logger)
		live = geocoding.NewCachedClient(rapidAPI, cfg.Provider.LocationCachePath, logger)
		providerName = "live"
	}

	// The invocation log is optional; without it tool calls are not recorded
	var recorder tools.Recorder
	var history *api.HistoryHandler
	if cfg.Database.Path != "" {
		logger.Infof("Using database at: %s", cfg.Database.Path)

		db, err := database.NewDatabase(cfg.Database.Path)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize database")
		}
		defer db.Close()

		logger.Info("Running database migrations...")
		if err := db.RunMigrations(); err != nil {
			logger.WithError(err).Fatal("Failed to run database migrations")
		}

		invocationQueue := queue.NewInvocationQueue(cfg.BatchProcessing.MaxBatchSize, logger)
		batchProcessor := processor.NewBatchProcessor(db, invocationQueue, cfg, logger)
		batchProcessor.Start()
		defer batchProcessor.Stop()

		recorder = batchProcessor

		if cfg.Database.RetentionDays > 0 {
			retention := time.Duration(cfg.Database.RetentionDays) * 24 * time.Hour
			maintenance, err := scheduler.NewScheduler(cfg.Database.RetentionSchedule, logger,
				scheduler.RetentionJob(db, retention, logger, nil))
			if err != nil {
				logger.WithError(err).Fatal("Failed to schedule invocation retention")
			}
			maintenance.Start()
			defer maintenance.Stop()
		}

		history = api.NewHistoryHandler(db, logger)
	} else {
		logger.Info("DATABASE_PATH is empty, invocation log disabled")
	}

	dispatcher := tools.NewDispatcher(live, demo, recorder, logger)

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, api.NewHandler(dispatcher, providerName, logger), history, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Server.Port,
			"provider": providerName,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}
