package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/internal/audit"
	"catalog-service/internal/config"
	"catalog-service/internal/database"
	"catalog-service/internal/handler"
	"catalog-service/internal/repository"
	"catalog-service/internal/router"
	"catalog-service/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; a missing file is fine, the environment may
	// be set directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting catalog API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply pending schema migrations before accepting traffic
	if err := database.Migrate(cfg.Database, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize audit publisher (Kafka when enabled, no-op otherwise)
	var publisher audit.Publisher = audit.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.BootstrapServers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise kafka audit publisher, audit events will be discarded")
		} else {
			publisher = kafkaPublisher
		}
	} else {
		logger.Info().Msg("audit publishing disabled")
	}
	defer publisher.Close()

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, cfg.Catalog.DeletePolicy, publisher, logger)
	productService := service.NewProductService(productRepo, categoryRepo, publisher, logger)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, logger)

	// Initialize HTTP handlers
	categoryHandler := handler.NewCategoryHandler(categoryService, catalogService, productService, logger)
	productHandler := handler.NewProductHandler(productService, catalogService, logger)

	// Initialize router
	mux := router.New(categoryHandler, productHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("delete_policy", cfg.Catalog.DeletePolicy).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
