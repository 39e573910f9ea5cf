package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using
// PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// hydratedProductQuery selects products joined with their category. The
// join is LEFT so products detached by a cascade delete still appear.
const hydratedProductQuery = `
	SELECT p.id, p.name, p.pcode, p.category_id, p.description, p.price,
	       p.created_at, p.updated_at,
	       c.id, c.name, c.description, c.slug, c.created_at, c.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

func scanHydratedProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var (
		catID, catName, catDescription, catSlug *string
		catCreatedAt, catUpdatedAt              *time.Time
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.PCode, &p.CategoryID, &p.Description, &p.Price,
		&p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catDescription, &catSlug, &catCreatedAt, &catUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		p.Category = &model.Category{
			ID:          *catID,
			Name:        *catName,
			Description: *catDescription,
			Slug:        *catSlug,
			CreatedAt:   *catCreatedAt,
			UpdatedAt:   *catUpdatedAt,
		}
	}

	return &p, nil
}

// GetAll retrieves all products in insertion order, hydrated with their
// categories.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := hydratedProductQuery + `
		ORDER BY p.created_at, p.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows, r.logger)
}

// GetByID retrieves a single product by its ID, hydrated with its
// category.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := hydratedProductQuery + `
		WHERE p.id = $1
	`

	p, err := scanHydratedProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByCategory retrieves all products referencing the given category in
// insertion order.
func (r *productRepository) GetByCategory(ctx context.Context, categoryID string) ([]model.Product, error) {
	query := hydratedProductQuery + `
		WHERE p.category_id = $1
		ORDER BY p.created_at, p.id
	`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", categoryID).Msg("failed to query products by category")
		return nil, fmt.Errorf("failed to query products by category: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows, r.logger)
}

func collectProducts(rows pgx.Rows, logger zerolog.Logger) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanHydratedProduct(rows)
		if err != nil {
			logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, pcode, category_id, description, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.PCode,
		product.CategoryID,
		product.Description,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			r.logger.Warn().
				Str("product_id", product.ID).
				Str("field", conflict.Field).
				Msg("product uniqueness violation")
			return conflict
		}
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", product.ID).Msg("product created successfully")
	return nil
}

// Update rewrites the mutable fields of an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, pcode = $3, category_id = $4, description = $5, price = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.PCode,
		product.CategoryID,
		product.Description,
		product.Price,
		product.UpdatedAt,
	)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			r.logger.Warn().
				Str("product_id", product.ID).
				Str("field", conflict.Field).
				Msg("product uniqueness violation")
			return conflict
		}
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Debug().Str("product_id", product.ID).Msg("product updated successfully")
	return nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Debug().Str("product_id", id).Msg("product deleted successfully")
	return nil
}
