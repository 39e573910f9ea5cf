package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements the CategoryRepository interface using
// PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

const categoryColumns = "id, name, description, slug, created_at, updated_at"

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll retrieves all categories sorted by name.
func (r *categoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a single category by its ID.
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1
	`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("category_id", id).Msg("category not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return c, nil
}

// GetByName retrieves a category by exact, case-sensitive name.
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE name = $1
	`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to query category by name")
		return nil, fmt.Errorf("failed to query category by name: %w", err)
	}

	return c, nil
}

// Create inserts a new category.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, name, description, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.Slug,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			r.logger.Warn().
				Str("category_id", category.ID).
				Str("field", conflict.Field).
				Msg("category uniqueness violation")
			return conflict
		}
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}

	r.logger.Debug().
		Str("category_id", category.ID).
		Str("slug", category.Slug).
		Msg("category created successfully")

	return nil
}

// Update rewrites the mutable fields of an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, slug = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.Slug,
		category.UpdatedAt,
	)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			r.logger.Warn().
				Str("category_id", category.ID).
				Str("field", conflict.Field).
				Msg("category uniqueness violation")
			return conflict
		}
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to update category")
		return fmt.Errorf("failed to update category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}

	r.logger.Debug().
		Str("category_id", category.ID).
		Str("slug", category.Slug).
		Msg("category updated successfully")

	return nil
}

// DeleteGuarded deletes the category only if no products reference it.
// The referencing products are read and the category deleted inside one
// transaction, so a product created concurrently blocks the delete
// instead of dangling.
func (r *categoryRepository) DeleteGuarded(ctx context.Context, id string) ([]model.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to check category existence")
		return nil, fmt.Errorf("failed to check category existence: %w", err)
	}
	if !exists {
		return nil, model.ErrCategoryNotFound
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, pcode, category_id, description, price, created_at, updated_at
		FROM products
		WHERE category_id = $1
		ORDER BY created_at, id
		FOR UPDATE
	`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to query referencing products")
		return nil, fmt.Errorf("failed to query referencing products: %w", err)
	}

	var blocking []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.PCode, &p.CategoryID, &p.Description,
			&p.Price, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		blocking = append(blocking, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if len(blocking) > 0 {
		// Deletion is refused; nothing has been mutated, so the rollback
		// in the deferred call is a no-op.
		r.logger.Debug().
			Str("category_id", id).
			Int("blocking_products", len(blocking)).
			Msg("category delete blocked by referencing products")
		return blocking, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to delete category")
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().Str("category_id", id).Msg("category deleted successfully")
	return nil, nil
}

// DeleteCascade clears the category reference on every referencing
// product and then deletes the category. Detach runs before the delete
// inside one transaction, so no product can be left referencing a
// category that no longer exists.
func (r *categoryRepository) DeleteCascade(ctx context.Context, id string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	detachTag, err := tx.Exec(ctx, `
		UPDATE products
		SET category_id = NULL, updated_at = NOW()
		WHERE category_id = $1
	`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to detach products")
		return 0, fmt.Errorf("failed to detach products: %w", err)
	}

	deleteTag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to delete category")
		return 0, fmt.Errorf("failed to delete category: %w", err)
	}
	if deleteTag.RowsAffected() == 0 {
		return 0, model.ErrCategoryNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	detached := detachTag.RowsAffected()
	r.logger.Debug().
		Str("category_id", id).
		Int64("detached_products", detached).
		Msg("category deleted with cascade detach")

	return detached, nil
}
