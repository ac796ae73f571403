package service

import (
	"context"

	"furnistore/internal/delivery"
	"furnistore/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for the product catalogue.
type ProductService interface {
	// List retrieves products with pagination and an optional category filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines operations on a user's cart.
type CartService interface {
	// Get returns the cart with its price breakdown.
	Get(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// AddItem adds quantity of a product to the cart.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.CartItemRequest) (*model.CartResponse, error)

	// UpdateItem sets the quantity of a line already in the cart.
	UpdateItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.CartResponse, error)

	// RemoveItem deletes a line from the cart.
	RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.CartResponse, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// VoucherService defines operations on the voucher catalogue and the
// per-user voucher selection.
type VoucherService interface {
	// List returns the vouchers that have not expired.
	List(ctx context.Context) []model.Voucher

	// Select remembers code as the user's voucher.
	Select(ctx context.Context, userID uuid.UUID, code string) (*model.Voucher, error)

	// Selected returns the user's voucher, or nil when none is usable.
	Selected(ctx context.Context, userID uuid.UUID) (*model.Voucher, error)

	// Clear forgets the user's voucher.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// WishlistService defines operations on a user's wishlist.
type WishlistService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
	Add(ctx context.Context, userID uuid.UUID, productID string) error
	Remove(ctx context.Context, userID uuid.UUID, productID string) error

	// MoveToCart moves a saved product into the cart with quantity one.
	MoveToCart(ctx context.Context, userID uuid.UUID, productID string) error
}

// AddressService defines operations on a user's delivery addresses.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Create(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *model.AddressRequest) (*model.Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}

// DeliveryService defines the delivery promise lookup.
type DeliveryService interface {
	// Estimate returns the promise for a coordinate or, when no coordinate
	// is given, for a postal code.
	Estimate(ctx context.Context, req *model.DeliveryEstimateRequest) (*delivery.Estimate, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout turns the user's cart into an order delivered to addressID.
	Checkout(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order owned by the user with all items and product details.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*model.OrderResponse, error)
}
