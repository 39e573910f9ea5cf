package service

import (
	"context"
	"time"

	"catalog-service/internal/audit"
	"catalog-service/internal/model"

	"github.com/rs/zerolog"
)

// CategoryService defines operations for category management.
type CategoryService interface {
	// GetAll retrieves all categories sorted by name.
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a single category by ID.
	GetByID(ctx context.Context, id string) (*model.Category, error)

	// Create validates the input and persists a new category with a
	// derived slug. Validation failures are returned as
	// *model.ValidationError.
	Create(ctx context.Context, input model.CategoryInput) (*model.Category, error)

	// Update re-validates the input and rewrites an existing category,
	// recomputing the slug from the new name.
	Update(ctx context.Context, id string, input model.CategoryInput) (*model.Category, error)

	// Delete removes a category under the configured referential
	// integrity policy and reports the outcome.
	Delete(ctx context.Context, id string) (*model.CategoryDeletion, error)
}

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves all products, hydrated with their categories.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByCategory retrieves all products referencing an existing
	// category.
	GetByCategory(ctx context.Context, categoryID string) ([]model.Product, error)

	// Create validates the input, resolves the category reference and
	// persists a new product.
	Create(ctx context.Context, input model.ProductInput) (*model.Product, error)

	// Update re-validates the input and rewrites an existing product.
	Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}

// CatalogService assembles composite reads spanning both stores.
type CatalogService interface {
	// CategoryDetail loads a category together with all products
	// referencing it, as one logical read.
	CategoryDetail(ctx context.Context, id string) (*model.CategoryDetail, error)

	// ProductDetail loads a product with its category joined.
	ProductDetail(ctx context.Context, id string) (*model.Product, error)
}

// recordAudit publishes a catalogue mutation event. Publishing is
// best-effort: failures are logged and never surfaced to the caller.
func recordAudit(ctx context.Context, publisher audit.Publisher, logger zerolog.Logger, eventType, entityID string, payload map[string]any) {
	event := audit.Event{
		Service:    "catalog-service",
		EventType:  eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("entity_id", entityID).
			Msg("failed to publish audit event")
	}
}
