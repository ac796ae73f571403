package service

import (
	"context"
	"fmt"
	"time"

	"furnistore/internal/kvstore"
	"furnistore/internal/model"
	"furnistore/internal/voucher"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const selectedVoucherKeyPrefix = "voucher:selected:"

// SelectedVoucherKey is the store key holding a user's selected voucher code.
func SelectedVoucherKey(userID uuid.UUID) string {
	return selectedVoucherKeyPrefix + userID.String()
}

// voucherService implements VoucherService.
type voucherService struct {
	catalog voucher.Catalog
	store   kvstore.Store
	now     func() time.Time
	logger  zerolog.Logger
}

// NewVoucherService creates a voucher service over a loaded catalog.
// now may be nil, in which case time.Now is used.
func NewVoucherService(catalog voucher.Catalog, store kvstore.Store, now func() time.Time, logger zerolog.Logger) VoucherService {
	if now == nil {
		now = time.Now
	}
	return &voucherService{
		catalog: catalog,
		store:   store,
		now:     now,
		logger:  logger.With().Str("service", "voucher").Logger(),
	}
}

// List returns the vouchers that have not expired, ordered by code.
func (s *voucherService) List(_ context.Context) []model.Voucher {
	now := s.now()
	all := s.catalog.List()

	active := make([]model.Voucher, 0, len(all))
	for _, v := range all {
		if !v.Expired(now) {
			active = append(active, v)
		}
	}
	return active
}

// Select validates code against the catalog and stores it for the user.
func (s *voucherService) Select(ctx context.Context, userID uuid.UUID, code string) (*model.Voucher, error) {
	v, ok := s.catalog.Lookup(code)
	if !ok {
		s.logger.Debug().Str("voucher_code", code).Msg("voucher not found")
		return nil, model.ErrVoucherNotFound
	}
	if v.Expired(s.now()) {
		s.logger.Debug().Str("voucher_code", v.Code).Msg("voucher expired")
		return nil, model.ErrVoucherExpired
	}

	if err := s.store.Set(ctx, SelectedVoucherKey(userID), []byte(v.Code)); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to store voucher selection")
		return nil, fmt.Errorf("failed to select voucher: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("voucher_code", v.Code).
		Msg("voucher selected")

	return &v, nil
}

// Selected returns the user's stored voucher. A selection whose voucher has
// since left the catalog or expired is treated as no selection.
func (s *voucherService) Selected(ctx context.Context, userID uuid.UUID) (*model.Voucher, error) {
	raw, ok, err := s.store.Get(ctx, SelectedVoucherKey(userID))
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to read voucher selection")
		return nil, fmt.Errorf("failed to read voucher selection: %w", err)
	}
	if !ok {
		return nil, nil
	}

	v, found := s.catalog.Lookup(string(raw))
	if !found || v.Expired(s.now()) {
		s.logger.Info().
			Str("user_id", userID.String()).
			Str("voucher_code", string(raw)).
			Msg("ignoring stale voucher selection")
		return nil, nil
	}

	return &v, nil
}

// Clear forgets the user's voucher.
func (s *voucherService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, SelectedVoucherKey(userID)); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear voucher selection")
		return fmt.Errorf("failed to clear voucher: %w", err)
	}
	return nil
}
