package repository

import (
	"context"
	"testing"
	"time"

	"furnistore/internal/database"
	"furnistore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, price, mrp, category, image_url, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query, p.ID, p.Name, p.Price, p.MRP, p.Category, p.ImageURL, p.Rating, p.CreatedAt)
		require.NoError(t, err)
	}
}

// furniture returns a small catalogue used across repository tests.
func furniture() []model.Product {
	now := time.Now()
	return []model.Product{
		{ID: "P001", Name: "Arm Chair", Price: 4999, MRP: 7999, Category: "chairs", ImageURL: "/img/p001.jpg", Rating: 4.5, CreatedAt: now},
		{ID: "P002", Name: "Bookshelf", Price: 8999, MRP: 8999, Category: "storage", ImageURL: "/img/p002.jpg", Rating: 4.1, CreatedAt: now},
		{ID: "P003", Name: "Coffee Table", Price: 3499.5, MRP: 4999, Category: "tables", ImageURL: "/img/p003.jpg", Rating: 3.9, CreatedAt: now},
		{ID: "P004", Name: "Dining Chair", Price: 2499, MRP: 3999, Category: "chairs", ImageURL: "/img/p004.jpg", Rating: 4.0, CreatedAt: now},
		{ID: "P005", Name: "Queen Bed", Price: 24999, MRP: 39999, Category: "beds", ImageURL: "/img/p005.jpg", Rating: 4.7, CreatedAt: now},
	}
}

// seedAddress inserts an address directly, bypassing default handling.
func seedAddress(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, postalCode string, isDefault bool) model.Address {
	now := time.Now()
	a := model.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       "Asha Verma",
		Phone:      "9876543210",
		Line1:      "12 Hazratganj",
		City:       "Lucknow",
		State:      "Uttar Pradesh",
		PostalCode: postalCode,
		IsDefault:  isDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO addresses (`+addressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.UserID, a.Name, a.Phone, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.IsDefault, a.CreatedAt, a.UpdatedAt,
	)
	require.NoError(t, err)
	return a
}
