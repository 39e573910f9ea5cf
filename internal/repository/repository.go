package repository

import (
	"context"

	"catalog-service/internal/model"
)

// CategoryRepository defines the interface for category data access
// operations.
type CategoryRepository interface {
	// GetAll retrieves all categories sorted by name.
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a single category by its ID. Returns (nil, nil)
	// when no category has that ID.
	GetByID(ctx context.Context, id string) (*model.Category, error)

	// GetByName retrieves a category by exact, case-sensitive name.
	// Returns (nil, nil) when no category has that name.
	GetByName(ctx context.Context, name string) (*model.Category, error)

	// Create inserts a new category. A uniqueness violation on name or
	// slug is returned as *model.ConflictError.
	Create(ctx context.Context, category *model.Category) error

	// Update rewrites the mutable fields (name, description, slug,
	// updated_at) of an existing category. Returns
	// model.ErrCategoryNotFound when the ID does not resolve.
	Update(ctx context.Context, category *model.Category) error

	// DeleteGuarded deletes the category only if no products reference
	// it. The check and the delete run in one transaction; when products
	// reference the category, nothing is deleted and the blocking
	// products are returned.
	DeleteGuarded(ctx context.Context, id string) ([]model.Product, error)

	// DeleteCascade clears the category reference on every referencing
	// product and then deletes the category, all in one transaction.
	// Returns the number of detached products.
	DeleteCascade(ctx context.Context, id string) (int64, error)
}

// ProductRepository defines the interface for product data access
// operations.
type ProductRepository interface {
	// GetAll retrieves all products in insertion order, each hydrated
	// with its category.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID, hydrated with its
	// category. Returns (nil, nil) when no product has that ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByCategory retrieves all products referencing the given
	// category in insertion order, each hydrated with its category.
	GetByCategory(ctx context.Context, categoryID string) ([]model.Product, error)

	// Create inserts a new product. A uniqueness violation on name is
	// returned as *model.ConflictError.
	Create(ctx context.Context, product *model.Product) error

	// Update rewrites the mutable fields of an existing product.
	// Returns model.ErrProductNotFound when the ID does not resolve.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product. Returns model.ErrProductNotFound when
	// the ID does not resolve.
	Delete(ctx context.Context, id string) error
}
