package integration

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"furnistore/internal/config"
	"furnistore/internal/content"
	"furnistore/internal/database"
	"furnistore/internal/delivery"
	"furnistore/internal/geo"
	"furnistore/internal/handler"
	"furnistore/internal/kvstore"
	"furnistore/internal/metrics"
	"furnistore/internal/objectstore"
	"furnistore/internal/repository"
	"furnistore/internal/router"
	"furnistore/internal/service"
	"furnistore/internal/voucher"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

// TestDB represents a migrated test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB creates a PostgreSQL test container and a migrated connection pool.
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
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	require.NoError(t, err, "failed to create connection pool")
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool, logger))

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// SeedProducts inserts the test catalogue.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		price    float64
		mrp      float64
		category string
	}{
		{"P001", "Arm Chair", 4999, 7999, "chairs"},
		{"P002", "Bookshelf", 8999, 8999, "storage"},
		{"P003", "Coffee Table", 3499.5, 4999, "tables"},
		{"P004", "Dining Chair", 2499, 3999, "chairs"},
		{"P005", "Queen Bed", 24999, 39999, "beds"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, price, mrp, category, image_url, rating) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			p.id, p.name, p.price, p.mrp, p.category, "/img/"+p.id+".jpg", 4.2,
		)
		require.NoError(t, err, "failed to seed product %s", p.id)
	}
}

// CleanupDB deletes all rows from the application tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE order_items, orders, cart_items, wishlist_items, addresses, products")
	require.NoError(t, err)
}

const testVouchers = `[
	{"code": "FLAT500", "title": "Flat ₹500 off on orders above ₹10000", "minimumSpend": 10000},
	{"code": "BIGBASKET", "title": "5% off big baskets", "minimumSpend": 50000},
	{"code": "EXPIRED", "title": "Flat ₹900 off", "minimumSpend": 0, "expiresAt": "2020-01-01T00:00:00Z"}
]`

const testContent = `{
	"hero": [{"title": "Winter Sale", "imageUrl": "/img/hero.jpg"}],
	"ads": [],
	"blog": [{"slug": "caring-for-teak", "title": "Caring for teak", "excerpt": "Oil twice a year.", "published": "2023-11-02"}],
	"categories": [{"name": "Chairs", "category": "chairs", "imageUrl": "/img/chairs.jpg"}]
}`

// testClock is the fixed "now" of the integration server: Friday
// 15 Dec 2023, 15:00 in Asia/Kolkata.
var testClock = time.Date(2023, 12, 15, 9, 30, 0, 0, time.UTC)

// NewTestServer wires the full application stack against pool, an in-memory
// Redis and documents in a temporary directory.
func NewTestServer(t *testing.T, pool *pgxpool.Pool) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	logger := zerolog.Nop()
	ctx := context.Background()
	now := func() time.Time { return testClock }

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vouchers.json"), []byte(testVouchers), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.json"), []byte(testContent), 0o644))
	opener := objectstore.NewFileOpener(dir, logger)

	catalog, err := voucher.Load(ctx, &voucher.LoaderConfig{Keys: []string{"vouchers.json"}}, opener, logger)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := kvstore.NewRedisStore(client, time.Hour, logger)

	location, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	planner, err := delivery.NewPlanner(delivery.Config{
		Warehouse:           geo.Coordinate{Latitude: 26.8467, Longitude: 80.9462},
		WarehousePostalCode: "226001",
		Location:            location,
		Locale:              "en",
	}, now)
	require.NoError(t, err)

	m := metrics.New()

	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	vouchers := service.NewVoucherService(catalog, store, now, logger)
	carts := service.NewCartService(cartRepo, productRepo, vouchers, m, logger)
	orders := service.NewOrderService(service.OrderDeps{
		Orders:    orderRepo,
		Carts:     cartRepo,
		Addresses: addressRepo,
		Products:  productRepo,
		CartSvc:   carts,
		Vouchers:  vouchers,
		Planner:   planner,
		Metrics:   m,
	}, logger)

	handlers := router.Handlers{
		Product:  handler.NewProductHandler(service.NewProductService(productRepo, logger), logger),
		Cart:     handler.NewCartHandler(carts, vouchers, logger),
		Wishlist: handler.NewWishlistHandler(service.NewWishlistService(wishlistRepo, productRepo, logger), logger),
		Address:  handler.NewAddressHandler(service.NewAddressService(addressRepo, logger), logger),
		Voucher:  handler.NewVoucherHandler(vouchers, logger),
		Delivery: handler.NewDeliveryHandler(service.NewDeliveryService(planner, m, logger), logger),
		Order:    handler.NewOrderHandler(orders, logger),
		Content:  handler.NewContentHandler(content.NewProvider(opener, "home.json", time.Minute, logger), logger),
	}

	return router.New(handlers, router.Options{APIKey: testAPIKey, AllowedOrigins: []string{"*"}}, m, logger), mr
}
