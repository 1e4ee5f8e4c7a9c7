package cli

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
	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/quiz-admin-service/internal/config"
	"github.com/SAP-F-2025/quiz-admin-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/internal/utils"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

const shutdownTimeout = 30 * time.Second

// NewServeCmd builds the CLI subcommand to start the HTTP server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}

	slogLogger := newLogger(cfg)
	logger := utils.NewSlogLogger(slogLogger)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	redisClient := openRedis(cfg, slogLogger)
	applyCacheTTLs(cfg)

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	publisher, err := newPublisher(cfg, slogLogger)
	if err != nil {
		_ = repo.Close()
		return err
	}

	v := validator.New()
	serviceManager := services.NewDefaultServiceManager(repo, publisher, slogLogger, v)
	if err := serviceManager.Initialize(ctx); err != nil {
		_ = serviceManager.Shutdown(ctx)
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := serviceManager.User().SeedDefaults(ctx, seedUsers(cfg)); err != nil {
		logger.Warn("Seeding default accounts failed", "error", err)
	}

	var authenticator handlers.Authenticator
	switch cfg.Auth.Mode {
	case config.AuthModeCasdoor:
		authenticator = handlers.NewCasdoorAuthMiddleware(cfg.Casdoor, serviceManager.User())
	default:
		authenticator = handlers.NewBasicAuthMiddleware(serviceManager.User())
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlers.NewHandlerManager(serviceManager, v, logger, authenticator).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "auth_mode", cfg.Auth.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context canceled, shutting down server...")
	case runErr = <-serverErr:
		logger.Error("Server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	// closes the publisher, the database and redis
	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	logger.Info("Server exited")
	return runErr
}
