package service

import (
	"context"
	"fmt"

	"furnistore/internal/model"
	"furnistore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// wishlistService implements WishlistService.
type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	logger       zerolog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		logger:       logger.With().Str("service", "wishlist").Logger(),
	}
}

func (s *wishlistService) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	items, err := s.wishlistRepo.List(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list wishlist")
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	for i := range items {
		if items[i].Product != nil {
			withDiscount(items[i].Product)
		}
	}
	return items, nil
}

func (s *wishlistService) Add(ctx context.Context, userID uuid.UUID, productID string) error {
	if err := s.productRepo.ValidateProductsExist(ctx, []string{productID}); err != nil {
		return err
	}

	if err := s.wishlistRepo.Add(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}

	s.logger.Debug().Str("user_id", userID.String()).Str("product_id", productID).Msg("product saved to wishlist")
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, userID uuid.UUID, productID string) error {
	removed, err := s.wishlistRepo.Remove(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	if !removed {
		return model.ErrProductNotFound
	}
	return nil
}

// MoveToCart moves a saved product into the cart with quantity one.
func (s *wishlistService) MoveToCart(ctx context.Context, userID uuid.UUID, productID string) error {
	moved, err := s.wishlistRepo.MoveToCart(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to move wishlist item to cart: %w", err)
	}
	if !moved {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("user_id", userID.String()).Str("product_id", productID).Msg("wishlist item moved to cart")
	return nil
}
