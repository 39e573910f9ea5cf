package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"catalog-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the catalogue schema, mirroring the migration.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			slug TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT categories_name_key UNIQUE (name),
			CONSTRAINT categories_slug_key UNIQUE (slug)
		);

		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			pcode TEXT NOT NULL DEFAULT '',
			category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT products_name_key UNIQUE (name)
		);

		CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCategory inserts a category directly and returns it.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, name string) *model.Category {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	category := &model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      model.Slugify(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		"INSERT INTO categories (id, name, description, slug, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		category.ID, category.Name, category.Description, category.Slug, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed category %s: %v", name, err)
	}

	return category
}

// SeedProduct inserts a product directly and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name string, categoryID *string, price float64) *model.Product {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	product := &model.Product{
		ID:         uuid.NewString(),
		Name:       name,
		CategoryID: categoryID,
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		"INSERT INTO products (id, name, pcode, category_id, description, price, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		product.ID, product.Name, product.PCode, product.CategoryID, product.Description, product.Price, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}

	return product
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"products", "categories"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
