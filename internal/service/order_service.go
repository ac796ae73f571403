package service

import (
	"context"
	"fmt"
	"time"

	"furnistore/internal/delivery"
	"furnistore/internal/metrics"
	"furnistore/internal/model"
	"furnistore/internal/pricing"
	"furnistore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	productRepo repository.ProductRepository
	carts       CartService
	vouchers    VoucherService
	planner     *delivery.Planner
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// OrderDeps groups the collaborators of the order service.
type OrderDeps struct {
	Orders    repository.OrderRepository
	Carts     repository.CartRepository
	Addresses repository.AddressRepository
	Products  repository.ProductRepository
	CartSvc   CartService
	Vouchers  VoucherService
	Planner   *delivery.Planner
	Metrics   *metrics.Metrics
}

// NewOrderService creates a new order service.
func NewOrderService(deps OrderDeps, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo:   deps.Orders,
		cartRepo:    deps.Carts,
		addressRepo: deps.Addresses,
		productRepo: deps.Products,
		carts:       deps.CartSvc,
		vouchers:    deps.Vouchers,
		planner:     deps.Planner,
		metrics:     deps.Metrics,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout turns the user's cart into an order. The order, its items and the
// removal of the ordered cart lines are written in one transaction. A cart
// edited after it was priced fails with ErrCartChanged.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.OrderResponse, error) {
	if req == nil || req.AddressID == uuid.Nil {
		return nil, model.ErrAddressNotFound
	}

	address, err := s.addressRepo.GetByID(ctx, userID, req.AddressID)
	if err != nil {
		s.logger.Error().Err(err).Str("address_id", req.AddressID.String()).Msg("failed to get address")
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	if address == nil {
		return nil, model.ErrAddressNotFound
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		s.logger.Debug().Str("user_id", userID.String()).Msg("checkout with empty cart")
		return nil, model.ErrEmptyCart
	}

	estimate, err := s.planner.EstimateFromPostalCode(address.PostalCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		AddressID:       address.ID,
		TotalMRP:        cart.Breakdown.TotalMRP,
		TotalPrice:      cart.Breakdown.TotalPrice,
		ProductDiscount: cart.Breakdown.ProductDiscount,
		VoucherDiscount: cart.Breakdown.VoucherDiscount,
		FinalAmount:     cart.Breakdown.FinalAmount,
		DeliveryDays:    estimate.Days,
		PromiseDate:     estimate.PromiseDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if cart.Voucher != nil && cart.Breakdown.VoucherApplicable {
		code := cart.Voucher.Code
		order.VoucherCode = &code
	}

	orderItems := make([]model.OrderItem, len(cart.Lines))
	products := make([]model.Product, len(cart.Lines))
	ordered := make([]model.CartItem, len(cart.Lines))
	for i, line := range cart.Lines {
		ordered[i] = model.CartItem{UserID: userID, ProductID: line.Product.ID, Quantity: line.Quantity}
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			ListPrice: line.Product.MRP,
		}
		products[i] = line.Product
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	// Only the lines that were priced into the order leave the cart.
	matched, err := s.cartRepo.RemoveOrderedTx(ctx, tx, userID, ordered)
	if err != nil {
		return nil, fmt.Errorf("failed to empty cart: %w", err)
	}
	if !matched {
		err = model.ErrCartChanged
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if clearErr := s.vouchers.Clear(ctx, userID); clearErr != nil {
		s.logger.Warn().Err(clearErr).Str("order_id", order.ID.String()).Msg("failed to clear voucher after checkout")
	}

	s.metrics.ObserveCheckout(order.FinalAmount)
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Float64("final_amount", order.FinalAmount).
		Int("delivery_days", order.DeliveryDays).
		Msg("order created successfully")

	return &model.OrderResponse{
		Order:     *order,
		Items:     orderItems,
		Products:  products,
		Breakdown: cart.Breakdown,
	}, nil
}

// GetByID retrieves an order owned by the user with all items and product details.
func (s *orderService) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil || order.UserID != userID {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}
	for i := range products {
		withDiscount(&products[i])
	}

	return &model.OrderResponse{
		Order:     *order,
		Items:     items,
		Products:  products,
		Breakdown: breakdownOf(order),
	}, nil
}

// breakdownOf rebuilds the breakdown captured on the order.
func breakdownOf(o *model.Order) pricing.Breakdown {
	return pricing.Breakdown{
		TotalMRP:          o.TotalMRP,
		TotalPrice:        o.TotalPrice,
		ProductDiscount:   o.ProductDiscount,
		VoucherDiscount:   o.VoucherDiscount,
		VoucherApplicable: o.VoucherCode != nil,
		FinalAmount:       o.FinalAmount,
	}
}
