package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting furnistore API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Redis
	redisClient, err := kvstore.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()
	store := kvstore.NewRedisStore(redisClient, cfg.Redis.SelectionTTL, logger)

	// Catalog and content documents, from S3 with local fallback
	opener := newOpener(ctx, cfg.S3, logger)

	catalog, err := voucher.Load(ctx, &voucher.LoaderConfig{Keys: cfg.Content.VoucherKeys}, opener, logger)
	if err != nil {
		return fmt.Errorf("failed to load voucher catalog: %w", err)
	}
	contentProvider := content.NewProvider(opener, cfg.Content.ContentKey, cfg.Content.RefreshInterval, logger)

	// Delivery planner
	location, err := cfg.Delivery.Location()
	if err != nil {
		return fmt.Errorf("failed to load delivery time zone: %w", err)
	}
	planner, err := delivery.NewPlanner(delivery.Config{
		Warehouse:           geo.Coordinate{Latitude: cfg.Delivery.WarehouseLat, Longitude: cfg.Delivery.WarehouseLng},
		WarehousePostalCode: cfg.Delivery.WarehousePostalCode,
		Location:            location,
		Locale:              cfg.Delivery.Locale,
	}, time.Now)
	if err != nil {
		return fmt.Errorf("failed to initialize delivery planner: %w", err)
	}

	m := metrics.New()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	voucherService := service.NewVoucherService(catalog, store, time.Now, logger)
	cartService := service.NewCartService(cartRepo, productRepo, voucherService, m, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)
	addressService := service.NewAddressService(addressRepo, logger)
	deliveryService := service.NewDeliveryService(planner, m, logger)
	orderService := service.NewOrderService(service.OrderDeps{
		Orders:    orderRepo,
		Carts:     cartRepo,
		Addresses: addressRepo,
		Products:  productRepo,
		CartSvc:   cartService,
		Vouchers:  voucherService,
		Planner:   planner,
		Metrics:   m,
	}, logger)

	// Initialize HTTP handlers and router
	handlers := router.Handlers{
		Product:  handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, voucherService, logger),
		Wishlist: handler.NewWishlistHandler(wishlistService, logger),
		Address:  handler.NewAddressHandler(addressService, logger),
		Voucher:  handler.NewVoucherHandler(voucherService, logger),
		Delivery: handler.NewDeliveryHandler(deliveryService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Content:  handler.NewContentHandler(contentProvider, logger),
	}
	mux := router.New(handlers, router.Options{
		APIKey:         cfg.Auth.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, m, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newOpener returns the object store for catalog and content documents. When
// S3 is enabled but cannot be initialised, only the local file system is used.
func newOpener(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) objectstore.Opener {
	fileOpener := objectstore.NewFileOpener("", logger)

	if !cfg.Enabled {
		logger.Info().Msg("using local file system for documents (S3 disabled)")
		return fileOpener
	}

	s3Opener, err := objectstore.NewS3Opener(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 opener, falling back to local file system only")
		return fileOpener
	}

	return objectstore.NewFallbackOpener(s3Opener, fileOpener, cfg.Prefix, logger)
}
