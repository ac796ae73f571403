package service

import (
	"context"
	"fmt"

	"furnistore/internal/metrics"
	"furnistore/internal/model"
	"furnistore/internal/pricing"
	"furnistore/internal/repository"
	"furnistore/internal/voucher"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	vouchers    VoucherService
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	vouchers VoucherService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		vouchers:    vouchers,
		metrics:     m,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the cart with its price breakdown.
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list cart items")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		withDiscount(&p)
		byID[p.ID] = p
	}

	resp := &model.CartResponse{Lines: make([]model.CartLine, 0, len(items))}
	lineItems := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Cascading deletes keep this from happening; skip rather than fail the cart.
			s.logger.Warn().Str("product_id", item.ProductID).Msg("cart references unknown product")
			continue
		}
		resp.Lines = append(resp.Lines, model.CartLine{Product: product, Quantity: item.Quantity})
		resp.ItemCount += item.Quantity
		lineItems = append(lineItems, pricing.LineItem{
			UnitPrice: product.Price,
			ListPrice: product.MRP,
			Quantity:  item.Quantity,
		})
	}

	selected, err := s.vouchers.Selected(ctx, userID)
	if err != nil {
		return nil, err
	}

	var v *pricing.Voucher
	if selected != nil {
		resp.Voucher = selected
		v = voucher.ToPricing(*selected)
	}

	resp.Breakdown = pricing.Compute(lineItems, v)
	s.metrics.ObserveBreakdown(v != nil, resp.Breakdown.VoucherApplicable)

	return resp, nil
}

// AddItem adds quantity of a product to the cart.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.CartItemRequest) (*model.CartResponse, error) {
	if err := validQuantity(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.ValidateProductsExist(ctx, []string{req.ProductID}); err != nil {
		s.logger.Debug().Str("product_id", req.ProductID).Err(err).Msg("cannot add product to cart")
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.Get(ctx, userID)
}

// UpdateItem sets the quantity of a line already in the cart.
func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.CartResponse, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	found, err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	return s.Get(ctx, userID)
}

// RemoveItem deletes a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.CartResponse, error) {
	found, err := s.cartRepo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	return s.Get(ctx, userID)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Debug().Str("user_id", userID.String()).Msg("cart cleared")
	return nil
}

func validQuantity(quantity int) error {
	if quantity < 1 || quantity > model.MaxLineQuantity {
		return model.ErrInvalidQuantity
	}
	return nil
}
