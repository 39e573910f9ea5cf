package service

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/audit"
	"catalog-service/internal/config"
	"catalog-service/internal/model"
	"catalog-service/internal/repository"
	"catalog-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	deletePolicy string
	publisher    audit.Publisher
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service. deletePolicy is one
// of config.DeletePolicyGuard or config.DeletePolicyCascade.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	deletePolicy string,
	publisher audit.Publisher,
	logger zerolog.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		deletePolicy: deletePolicy,
		publisher:    publisher,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

func categoryName(c *model.CategoryInput) *string        { return &c.Name }
func categoryDescription(c *model.CategoryInput) *string { return &c.Description }

// inputRules is the rule chain shared by create and update. On update
// excludeID names the record being updated, so a category may keep its
// own name.
func (s *categoryService) inputRules(excludeID string) validation.Chain[model.CategoryInput] {
	return validation.NewChain(
		validation.Trim(categoryName),
		validation.Required[model.CategoryInput]("name", "Name must be specified", categoryName),
		validation.Escape(categoryName),
		s.nameAvailable(excludeID),
		validation.Trim(categoryDescription),
		validation.Escape(categoryDescription),
	)
}

// nameAvailable checks, within the validation pass, that no other
// category already uses the candidate name (case-sensitive exact match).
// A taken name is a field error; only a failing store lookup aborts the
// chain.
func (s *categoryService) nameAvailable(excludeID string) validation.Rule[model.CategoryInput] {
	return func(ctx context.Context, c *model.CategoryInput) (*model.FieldError, error) {
		if c.Name == "" {
			return nil, nil
		}

		existing, err := s.categoryRepo.GetByName(ctx, c.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if existing != nil && existing.ID != excludeID {
			return &model.FieldError{Field: "name", Message: "Category name already exists"}, nil
		}
		return nil, nil
	}
}

// GetAll retrieves all categories sorted by name.
func (s *categoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// GetByID retrieves a single category by ID.
func (s *categoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if id == "" {
		return nil, model.ErrCategoryNotFound
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to get category by ID")
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}

	return category, nil
}

// Create validates the input and persists a new category. The slug is
// derived from the validated name as part of the same write.
func (s *categoryService) Create(ctx context.Context, input model.CategoryInput) (*model.Category, error) {
	fieldErrs, err := s.inputRules("").Validate(ctx, &input)
	if err != nil {
		s.logger.Error().Err(err).Msg("category validation lookup failed")
		return nil, fmt.Errorf("failed to validate category: %w", err)
	}
	if len(fieldErrs) > 0 {
		return nil, &model.ValidationError{Fields: fieldErrs}
	}

	now := time.Now().UTC()
	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Slug:        model.Slugify(input.Name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The name pre-check above is not transactionally linked to this
	// insert; a concurrent create with the same name surfaces here as a
	// ConflictError from the unique index.
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.publisher, s.logger, audit.EventCategoryCreated, category.ID, map[string]any{
		"name": category.Name,
		"slug": category.Slug,
	})

	s.logger.Info().
		Str("category_id", category.ID).
		Str("slug", category.Slug).
		Msg("category created")

	return category, nil
}

// Update re-validates the input and rewrites an existing category. The
// slug is recomputed from the new name on every save.
func (s *categoryService) Update(ctx context.Context, id string, input model.CategoryInput) (*model.Category, error) {
	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to get category for update")
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCategoryNotFound
	}

	fieldErrs, err := s.inputRules(id).Validate(ctx, &input)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("category validation lookup failed")
		return nil, fmt.Errorf("failed to validate category: %w", err)
	}
	if len(fieldErrs) > 0 {
		return nil, &model.ValidationError{Fields: fieldErrs}
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Slug = model.Slugify(input.Name)
	existing.UpdatedAt = time.Now().UTC()

	if err := s.categoryRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.publisher, s.logger, audit.EventCategoryUpdated, existing.ID, map[string]any{
		"name": existing.Name,
		"slug": existing.Slug,
	})

	s.logger.Info().
		Str("category_id", existing.ID).
		Str("slug", existing.Slug).
		Msg("category updated")

	return existing, nil
}

// Delete removes a category under the configured referential integrity
// policy. Under guard, a category with referencing products is left
// untouched and the blocking products are reported; under cascade, the
// category is removed and every referencing product is detached.
func (s *categoryService) Delete(ctx context.Context, id string) (*model.CategoryDeletion, error) {
	if id == "" {
		return nil, model.ErrCategoryNotFound
	}

	switch s.deletePolicy {
	case config.DeletePolicyCascade:
		detached, err := s.categoryRepo.DeleteCascade(ctx, id)
		if err != nil {
			return nil, err
		}

		recordAudit(ctx, s.publisher, s.logger, audit.EventCategoryDeleted, id, map[string]any{
			"policy":            config.DeletePolicyCascade,
			"detached_products": detached,
		})

		s.logger.Info().
			Str("category_id", id).
			Int64("detached_products", detached).
			Msg("category deleted (cascade)")

		return &model.CategoryDeletion{Deleted: true, Detached: detached}, nil

	default:
		blocking, err := s.categoryRepo.DeleteGuarded(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(blocking) > 0 {
			s.logger.Info().
				Str("category_id", id).
				Int("blocking_products", len(blocking)).
				Msg("category delete blocked")
			return &model.CategoryDeletion{Deleted: false, BlockedBy: blocking}, nil
		}

		recordAudit(ctx, s.publisher, s.logger, audit.EventCategoryDeleted, id, map[string]any{
			"policy": config.DeletePolicyGuard,
		})

		s.logger.Info().Str("category_id", id).Msg("category deleted (guard)")
		return &model.CategoryDeletion{Deleted: true}, nil
	}
}
