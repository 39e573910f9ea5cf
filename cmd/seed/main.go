// Command seed applies a catalogue fixture to the database. Fixtures
// are loaded from S3 when enabled, falling back to the local file
// system, and applied through the services so every record passes the
// validation pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"catalog-service/internal/audit"
	"catalog-service/internal/config"
	"catalog-service/internal/database"
	"catalog-service/internal/repository"
	"catalog-service/internal/seed"
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
	fixturePath := flag.String("file", "db/fixtures/catalog.json", "fixture file to apply")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("fixture", *fixturePath).Msg("starting catalogue seeder")

	ctx := context.Background()

	if err := database.Migrate(cfg.Database, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	// Seeding is an offline operation; audit events are not published.
	publisher := audit.NopPublisher{}
	categoryService := service.NewCategoryService(categoryRepo, cfg.Catalog.DeletePolicy, publisher, logger)
	productService := service.NewProductService(productRepo, categoryRepo, publisher, logger)

	fileLoader := seed.NewFileLoader(logger)
	var loader seed.Loader = fileLoader
	if cfg.S3.Enabled {
		s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, using local file system only")
		} else {
			loader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
		}
	}

	fixture, err := loader.Load(ctx, *fixturePath)
	if err != nil {
		return fmt.Errorf("failed to load fixture: %w", err)
	}

	seeder := seed.NewSeeder(categoryService, productService, logger)
	result, err := seeder.Apply(ctx, fixture)
	if err != nil {
		return fmt.Errorf("failed to apply fixture: %w", err)
	}

	logger.Info().
		Int("categories", result.Categories).
		Int("products", result.Products).
		Int("skipped_categories", result.SkippedCategories).
		Int("skipped_products", result.SkippedProducts).
		Msg("seeding completed")

	return nil
}
