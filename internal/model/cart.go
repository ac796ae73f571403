package model

import (
	"time"

	"furnistore/internal/pricing"

	"github.com/google/uuid"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 99

// CartItem is one product line in a user's cart.
type CartItem struct {
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// CartLine joins a cart item with its product.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartItemRequest is the payload for adding or updating a cart line.
type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=99"`
}

// CartResponse is a user's cart with its price breakdown.
type CartResponse struct {
	Lines     []CartLine        `json:"lines"`
	ItemCount int               `json:"itemCount"`
	Voucher   *Voucher          `json:"voucher,omitempty"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// CartQuantityRequest is the payload for setting the quantity of a cart line.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1,max=99"`
}
