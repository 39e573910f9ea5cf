package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/audit"
	"catalog-service/internal/model"
	"catalog-service/internal/repository"
	"catalog-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	publisher    audit.Publisher
	logger       zerolog.Logger
}

// NewProductService creates a new product service. The category
// repository backs the reference check in the validation pipeline.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	publisher audit.Publisher,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

func productName(p *model.ProductInput) *string        { return &p.Name }
func productPCode(p *model.ProductInput) *string       { return &p.PCode }
func productDescription(p *model.ProductInput) *string { return &p.Description }

// inputRules is the rule chain shared by create and update.
func (s *productService) inputRules() validation.Chain[model.ProductInput] {
	return validation.NewChain(
		validation.Trim(productName),
		validation.Required[model.ProductInput]("name", "Name must be specified", productName),
		validation.MaxLen[model.ProductInput]("name", model.MaxProductNameLength, productName),
		validation.Escape(productName),
		validation.Trim(productPCode),
		validation.Escape(productPCode),
		validation.Trim(productDescription),
		validation.Escape(productDescription),
		s.categoryResolves(),
		priceRule(),
	)
}

// categoryResolves verifies the category reference is a well-formed
// identifier resolving to an existing category. A bad reference is a
// field error on "category", never a store-level failure.
func (s *productService) categoryResolves() validation.Rule[model.ProductInput] {
	return func(ctx context.Context, p *model.ProductInput) (*model.FieldError, error) {
		p.CategoryID = strings.TrimSpace(p.CategoryID)
		if p.CategoryID == "" {
			return &model.FieldError{Field: "category", Message: "Category must be selected"}, nil
		}
		if err := uuid.Validate(p.CategoryID); err != nil {
			return &model.FieldError{Field: "category", Message: "Invalid category"}, nil
		}

		category, err := s.categoryRepo.GetByID(ctx, p.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category reference: %w", err)
		}
		if category == nil {
			return &model.FieldError{Field: "category", Message: "Category does not exist"}, nil
		}
		return nil, nil
	}
}

// priceRule requires the raw price to parse as a non-negative number.
func priceRule() validation.Rule[model.ProductInput] {
	return func(_ context.Context, p *model.ProductInput) (*model.FieldError, error) {
		p.Price = strings.TrimSpace(p.Price)
		if p.Price == "" {
			return &model.FieldError{Field: "price", Message: "Price must be specified"}, nil
		}

		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return &model.FieldError{Field: "price", Message: "Price must be a positive number or 0"}, nil
		}
		return nil, nil
	}
}

// GetAll retrieves all products, hydrated with their categories.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")
	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetByCategory retrieves all products referencing an existing category.
// A missing category is NotFound; a category with no products yields an
// empty collection.
func (s *productService) GetByCategory(ctx context.Context, categoryID string) ([]model.Product, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", categoryID).Msg("failed to resolve category")
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}

	products, err := s.productRepo.GetByCategory(ctx, categoryID)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", categoryID).Msg("failed to get products by category")
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// Create validates the input and persists a new product.
func (s *productService) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	fieldErrs, err := s.inputRules().Validate(ctx, &input)
	if err != nil {
		s.logger.Error().Err(err).Msg("product validation lookup failed")
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}
	if len(fieldErrs) > 0 {
		return nil, &model.ValidationError{Fields: fieldErrs}
	}

	price, err := strconv.ParseFloat(input.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse validated price: %w", err)
	}

	now := time.Now().UTC()
	categoryID := input.CategoryID
	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		PCode:       input.PCode,
		CategoryID:  &categoryID,
		Description: input.Description,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.publisher, s.logger, audit.EventProductCreated, product.ID, map[string]any{
		"name":        product.Name,
		"category_id": categoryID,
		"price":       product.Price,
	})

	s.logger.Info().
		Str("product_id", product.ID).
		Str("category_id", categoryID).
		Msg("product created")

	return product, nil
}

// Update re-validates the input and rewrites an existing product.
func (s *productService) Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product for update")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	fieldErrs, err := s.inputRules().Validate(ctx, &input)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("product validation lookup failed")
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}
	if len(fieldErrs) > 0 {
		return nil, &model.ValidationError{Fields: fieldErrs}
	}

	price, err := strconv.ParseFloat(input.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse validated price: %w", err)
	}

	categoryID := input.CategoryID
	existing.Name = input.Name
	existing.PCode = input.PCode
	existing.CategoryID = &categoryID
	existing.Description = input.Description
	existing.Price = price
	existing.UpdatedAt = time.Now().UTC()
	existing.Category = nil

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.publisher, s.logger, audit.EventProductUpdated, existing.ID, map[string]any{
		"name":        existing.Name,
		"category_id": categoryID,
		"price":       existing.Price,
	})

	s.logger.Info().Str("product_id", existing.ID).Msg("product updated")

	// Re-read so the response carries the joined category.
	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil || updated == nil {
		return existing, nil
	}
	return updated, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	recordAudit(ctx, s.publisher, s.logger, audit.EventProductDeleted, id, nil)

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
