package repository

import (
	"context"

	"furnistore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products matching the filter, ordered by name.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. It returns nil when the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ValidateProductsExist checks if all provided product IDs exist in the database.
	// Returns error if any product ID does not exist.
	ValidateProductsExist(ctx context.Context, ids []string) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// ListItems returns the user's cart items in the order they were added.
	ListItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// AddItem inserts a line or adds quantity to an existing one, capped at MaxLineQuantity.
	AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) error

	// SetQuantity overwrites the quantity of an existing line. It reports false when the line does not exist.
	SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (bool, error)

	// RemoveItem deletes a line. It reports false when the line does not exist.
	RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (bool, error)

	// Clear empties the user's cart.
	Clear(ctx context.Context, userID uuid.UUID) error

	// RemoveOrderedTx deletes the given lines within the provided transaction,
	// matching on product and quantity. It reports false when any line has
	// changed or disappeared since it was read.
	RemoveOrderedTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, lines []model.CartItem) (bool, error)
}

// WishlistRepository defines the interface for wishlist data access operations.
type WishlistRepository interface {
	// List returns the user's wishlist with product details, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)

	// Add saves a product to the wishlist. Adding a saved product is a no-op.
	Add(ctx context.Context, userID uuid.UUID, productID string) error

	// Remove deletes a product from the wishlist. It reports false when it was not saved.
	Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error)

	// MoveToCart removes the product from the wishlist and adds one unit to the cart
	// in a single transaction. It reports false when the product was not saved.
	MoveToCart(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
}

// AddressRepository defines the interface for address data access operations.
type AddressRepository interface {
	// ListByUser returns the user's addresses, default first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// GetByID retrieves an address owned by the user. It returns nil when none matches.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Address, error)

	// Create inserts an address. A default address clears the user's other defaults.
	Create(ctx context.Context, address *model.Address) error

	// Update overwrites an address owned by address.UserID. It reports false when none matches.
	Update(ctx context.Context, address *model.Address) (bool, error)

	// Delete removes an address owned by the user. Removing the default promotes
	// the oldest remaining address. It reports false when none matches.
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)

	// SetDefault marks the address as the user's only default. It reports false when none matches.
	SetDefault(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}
