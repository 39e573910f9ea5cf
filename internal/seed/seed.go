// Package seed loads catalogue fixtures and applies them through the
// category and product services, so seeded data passes the same
// validation pipeline as API writes.
package seed

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/model"
	"catalog-service/internal/service"

	"github.com/rs/zerolog"
)

// FixtureProduct is a product entry in a fixture file. Price stays raw
// text so the price rule parses it like any other submission.
type FixtureProduct struct {
	Name        string `json:"name"`
	PCode       string `json:"pcode"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// FixtureCategory is a category entry with its nested products.
type FixtureCategory struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Products    []FixtureProduct `json:"products"`
}

// Fixture is the root of a fixture file.
type Fixture struct {
	Categories []FixtureCategory `json:"categories"`
}

// Loader reads a fixture from a backing store.
type Loader interface {
	Load(ctx context.Context, path string) (*Fixture, error)
}

// Result reports what a seeding run created and skipped.
type Result struct {
	Categories        int
	Products          int
	SkippedCategories int
	SkippedProducts   int
}

// Seeder applies fixtures through the catalogue services.
type Seeder struct {
	categories service.CategoryService
	products   service.ProductService
	logger     zerolog.Logger
}

// NewSeeder creates a new fixture seeder.
func NewSeeder(
	categories service.CategoryService,
	products service.ProductService,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		products:   products,
		logger:     logger.With().Str("component", "seeder").Logger(),
	}
}

// Apply creates every fixture category and its products. Records whose
// name is already taken are skipped, so re-running a fixture against a
// populated database is safe.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture) (*Result, error) {
	result := &Result{}

	for _, fc := range fixture.Categories {
		category, err := s.categories.Create(ctx, model.CategoryInput{
			Name:        fc.Name,
			Description: fc.Description,
		})
		switch {
		case err == nil:
			result.Categories++
		case isDuplicate(err):
			// Already seeded; look the existing category up so its
			// products still get a home.
			category, err = s.findCategory(ctx, fc.Name)
			if err != nil {
				return result, err
			}
			result.SkippedCategories++
		default:
			return result, fmt.Errorf("failed to seed category %q: %w", fc.Name, err)
		}

		for _, fp := range fc.Products {
			_, err := s.products.Create(ctx, model.ProductInput{
				Name:        fp.Name,
				PCode:       fp.PCode,
				CategoryID:  category.ID,
				Description: fp.Description,
				Price:       fp.Price,
			})
			switch {
			case err == nil:
				result.Products++
			case isDuplicate(err):
				result.SkippedProducts++
			default:
				return result, fmt.Errorf("failed to seed product %q: %w", fp.Name, err)
			}
		}
	}

	s.logger.Info().
		Int("categories", result.Categories).
		Int("products", result.Products).
		Int("skipped_categories", result.SkippedCategories).
		Int("skipped_products", result.SkippedProducts).
		Msg("fixture applied")

	return result, nil
}

// findCategory resolves an already-seeded category by name. The name is
// matched against the stored (validated) form.
func (s *Seeder) findCategory(ctx context.Context, name string) (*model.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing category %q: %w", name, err)
	}
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q reported as existing but not found", name)
}

// isDuplicate reports whether a create failed only because an equally
// named record already exists.
func isDuplicate(err error) bool {
	var conflictErr *model.ConflictError
	if errors.As(err, &conflictErr) {
		return true
	}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		for _, fe := range validationErr.Fields {
			if fe.Field == "name" && fe.Message == "Category name already exists" {
				return true
			}
		}
	}
	return false
}
