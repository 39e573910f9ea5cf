package service

import (
	"context"
	"fmt"

	"catalog-service/internal/model"
	"catalog-service/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// catalogService implements CatalogService, assembling composite reads
// from both stores.
type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       zerolog.Logger
}

// NewCatalogService creates a new catalog facade.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger.With().Str("service", "catalog").Logger(),
	}
}

// CategoryDetail loads a category and all products referencing it. The
// two lookups are independent and run concurrently; either failing fails
// the whole read.
func (s *catalogService) CategoryDetail(ctx context.Context, id string) (*model.CategoryDetail, error) {
	if id == "" {
		return nil, model.ErrCategoryNotFound
	}

	var (
		category *model.Category
		products []model.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		category, err = s.categoryRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.productRepo.GetByCategory(gctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to load category detail")
		return nil, fmt.Errorf("failed to load category detail: %w", err)
	}

	if category == nil {
		return nil, model.ErrCategoryNotFound
	}
	if products == nil {
		products = []model.Product{}
	}

	s.logger.Debug().
		Str("category_id", id).
		Int("products", len(products)).
		Msg("category detail assembled")

	return &model.CategoryDetail{Category: *category, Products: products}, nil
}

// ProductDetail loads a product with its category joined. A product
// whose category was detached is returned uncategorised, not as an
// error.
func (s *catalogService) ProductDetail(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to load product detail")
		return nil, fmt.Errorf("failed to load product detail: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
