package voucher

import (
	"context"
	"fmt"
	"sync"

	"furnistore/internal/model"
	"furnistore/internal/objectstore"

	"github.com/rs/zerolog"
)

// Code length bounds; entries outside them are skipped on load.
const (
	minCodeLength = 4
	maxCodeLength = 32
)

// LoaderConfig holds configuration for loading the voucher catalog.
type LoaderConfig struct {
	// Keys lists the catalog files to load. Each holds a JSON array of
	// vouchers, optionally gzipped when the key ends in ".gz".
	Keys []string
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Keys: []string{"data/vouchers/vouchers.json"},
	}
}

// Load reads every configured file concurrently and merges them in key
// order, so a code in a later file overrides the same code in an earlier one.
func Load(ctx context.Context, cfg *LoaderConfig, opener objectstore.Opener, logger zerolog.Logger) (Catalog, error) {
	if cfg == nil {
		cfg = DefaultLoaderConfig()
	}

	logger = logger.With().Str("component", "voucher-loader").Logger()
	logger.Info().Int("file_count", len(cfg.Keys)).Msg("loading voucher catalog")

	type loadResult struct {
		index    int
		vouchers []model.Voucher
		err      error
	}

	resultChan := make(chan loadResult, len(cfg.Keys))
	var wg sync.WaitGroup

	for i, key := range cfg.Keys {
		wg.Add(1)
		go func(index int, key string) {
			defer wg.Done()

			var vouchers []model.Voucher
			err := objectstore.DecodeJSON(ctx, opener, key, &vouchers)
			resultChan <- loadResult{index: index, vouchers: vouchers, err: err}
		}(i, key)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(cfg.Keys))
	for result := range resultChan {
		results[result.index] = result
	}

	catalog := &mapCatalog{vouchers: make(map[string]model.Voucher)}
	for i, result := range results {
		if result.err != nil {
			logger.Error().Err(result.err).Str("file", cfg.Keys[i]).Msg("failed to load voucher file")
			return nil, fmt.Errorf("failed to load voucher file %s: %w", cfg.Keys[i], result.err)
		}

		skipped := 0
		for _, v := range result.vouchers {
			code := NormaliseCode(v.Code)
			if len(code) < minCodeLength || len(code) > maxCodeLength {
				skipped++
				continue
			}
			catalog.add(v)
		}

		logger.Info().
			Str("file", cfg.Keys[i]).
			Int("vouchers", len(result.vouchers)).
			Int("skipped", skipped).
			Msg("voucher file loaded")
	}

	logger.Info().Int("total_vouchers", catalog.Size()).Msg("voucher catalog loaded")

	return catalog, nil
}
