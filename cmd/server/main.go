package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/cache"
	"github.com/SAP-F-2025/challenge-service/internal/config"
	"github.com/SAP-F-2025/challenge-service/internal/handlers"
	"github.com/SAP-F-2025/challenge-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/SAP-F-2025/challenge-service/pkg"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development").LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.LogError(err, "Server stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	v := validator.New()
	projectService := services.NewProjectService(postgres.NewProjectPostgreSQL(db), publisher, logger.Slog(), v)
	if err := projectService.Load(ctx); err != nil {
		return err
	}
	playService := services.NewPlayService(projectService, cache.NewResultCache(redisClient, cfg.ResultTTL), publisher, logger.Slog(), v)
	defer playService.Shutdown()
	importExportService := services.NewImportExportService(projectService, playService, logger.Slog(), v)

	var tokenParser handlers.TokenParser
	if cfg.Auth.Enabled() {
		tokenParser = handlers.NewCasdoorTokenParser(cfg.Auth)
		logger.Info("Authoring routes require casdoor tokens", "endpoint", cfg.Auth.Endpoint)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))
	handlers.NewHandlerManager(projectService, playService, importExportService, v, tokenParser, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
