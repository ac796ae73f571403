package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"furnistore/internal/config"
	"furnistore/internal/database"
	"furnistore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// seed loads the sample furniture catalogue into the configured database and
// can write a gzipped copy of a voucher catalogue for upload to S3.
func main() {
	skipDB := flag.Bool("skip-db", false, "do not seed the product catalogue")
	vouchersIn := flag.String("vouchers", "data/vouchers/vouchers.json", "voucher catalogue to compress")
	vouchersOut := flag.String("gzip-out", "", "write the voucher catalogue gzipped to this path")
	flag.Parse()

	if err := run(*skipDB, *vouchersIn, *vouchersOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(skipDB bool, vouchersIn, vouchersOut string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	if !skipDB {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		n, err := seedProducts(ctx, pool, catalogue())
		if err != nil {
			return err
		}
		logger.Info().Int64("inserted", n).Msg("product catalogue seeded")
	}

	if vouchersOut != "" {
		count, err := gzipVouchers(vouchersIn, vouchersOut)
		if err != nil {
			return err
		}
		logger.Info().
			Str("file", vouchersOut).
			Int("vouchers", count).
			Msg("gzipped voucher catalogue written")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []model.Product) (int64, error) {
	query := `
		INSERT INTO products (id, name, price, mrp, category, image_url, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Name, p.Price, p.MRP, p.Category, p.ImageURL, p.Rating)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for _, p := range products {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// gzipVouchers validates the catalogue at in and writes it gzipped to out.
func gzipVouchers(in, out string) (int, error) {
	raw, err := os.ReadFile(in)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", in, err)
	}

	var vouchers []model.Voucher
	if err := json.Unmarshal(raw, &vouchers); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", in, err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write(raw); err != nil {
		return 0, fmt.Errorf("failed to write vouchers: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return 0, fmt.Errorf("failed to flush vouchers: %w", err)
	}

	return len(vouchers), nil
}

func catalogue() []model.Product {
	return []model.Product{
		{ID: "FS-CH-001", Name: "Sheesham Arm Chair", Price: 12499, MRP: 18999, Category: "chairs", ImageURL: "/img/chairs/sheesham-arm.jpg", Rating: 4.4},
		{ID: "FS-CH-002", Name: "Cane Lounge Chair", Price: 8999, MRP: 11999, Category: "chairs", ImageURL: "/img/chairs/cane-lounge.jpg", Rating: 4.1},
		{ID: "FS-SF-001", Name: "Three Seater Linen Sofa", Price: 45999, MRP: 64999, Category: "sofas", ImageURL: "/img/sofas/linen-3s.jpg", Rating: 4.6},
		{ID: "FS-SF-002", Name: "L-Shaped Sectional", Price: 72999, MRP: 99999, Category: "sofas", ImageURL: "/img/sofas/sectional.jpg", Rating: 4.3},
		{ID: "FS-TB-001", Name: "Teak Dining Table", Price: 24999, MRP: 32999, Category: "tables", ImageURL: "/img/tables/teak-dining.jpg", Rating: 4.5},
		{ID: "FS-TB-002", Name: "Mango Wood Coffee Table", Price: 6499, MRP: 9999, Category: "tables", ImageURL: "/img/tables/mango-coffee.jpg", Rating: 4.0},
		{ID: "FS-BD-001", Name: "Queen Bed with Storage", Price: 38999, MRP: 54999, Category: "beds", ImageURL: "/img/beds/queen-storage.jpg", Rating: 4.7},
		{ID: "FS-ST-001", Name: "Five Shelf Bookcase", Price: 9999, MRP: 9999, Category: "storage", ImageURL: "/img/storage/bookcase.jpg", Rating: 4.2},
		{ID: "FS-ST-002", Name: "Two Door Wardrobe", Price: 27999, MRP: 35999, Category: "storage", ImageURL: "/img/storage/wardrobe.jpg", Rating: 3.9},
		{ID: "FS-DC-001", Name: "Brass Table Lamp", Price: 2499, MRP: 3499, Category: "decor", ImageURL: "/img/decor/brass-lamp.jpg", Rating: 4.4},
	}
}
