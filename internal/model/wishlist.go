package model

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a product a user saved for later.
type WishlistItem struct {
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
	Product   *Product  `json:"product,omitempty" db:"-"`
}
