package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/SAP-F-2025/exam-prep-service/internal/cache"
	"github.com/SAP-F-2025/exam-prep-service/internal/config"
	"github.com/SAP-F-2025/exam-prep-service/internal/handlers"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-prep-service/internal/services"
	"github.com/SAP-F-2025/exam-prep-service/internal/utils"
	"github.com/SAP-F-2025/exam-prep-service/internal/validator"
	"github.com/SAP-F-2025/exam-prep-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var appLogger utils.Logger
	if cfg.IsProduction() {
		appLogger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		appLogger = utils.NewDevelopmentLogger()
	}
	logger := utils.ToSlogLogger(appLogger)
	slog.SetDefault(logger)

	logger.Info("Exam prep service starting", "environment", cfg.Environment, "port", cfg.Port)

	if err := run(cfg, appLogger, logger); err != nil {
		logger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Exam prep service stopped")
}

func run(cfg *config.Config, appLogger utils.Logger, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := pkg.MigrateOwnedTables(db); err != nil {
		return err
	}

	// Cache
	cacheService := cache.NewNoopCache()
	if cfg.CacheEnabled {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Warn("Redis unavailable, attempt cache disabled", "error", err)
		} else {
			defer client.Close()
			cacheService = cache.NewRedisCache(client, logger)
		}
	}
	cacheManager := cache.NewCacheManager(cacheService, logger)

	// Events
	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}()

	repo := postgres.NewRepository(db, cacheManager, cfg.AttemptsTTL)
	serviceManager := services.NewServiceManager(repo, publisher, logger, validator.New(), services.Options{Location: loc})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(appLogger))
	handlers.NewHandlerManager(serviceManager, handlers.RouterConfig{
		UserIDHeader:   cfg.UserIDHeader,
		DefaultLocale:  cfg.DefaultLocale,
		AllowedOrigins: cfg.AllowedOrigins,
	}, appLogger).SetupRoutes(router)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
