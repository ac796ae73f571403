package model

import (
	"time"

	"furnistore/internal/pricing"

	"github.com/google/uuid"
)

// Order is a checkout hand-off created from a cart.
type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"-" db:"user_id"`
	AddressID       uuid.UUID `json:"addressId" db:"address_id"`
	VoucherCode     *string   `json:"voucherCode,omitempty" db:"voucher_code"`
	TotalMRP        float64   `json:"totalMrp" db:"total_mrp"`
	TotalPrice      float64   `json:"totalPrice" db:"total_price"`
	ProductDiscount float64   `json:"productDiscount" db:"product_discount"`
	VoucherDiscount float64   `json:"voucherDiscount" db:"voucher_discount"`
	FinalAmount     float64   `json:"finalAmount" db:"final_amount"`
	DeliveryDays    int       `json:"deliveryDays" db:"delivery_days"`
	PromiseDate     string    `json:"promiseDate" db:"promise_date"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line of an order with prices captured at checkout.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
	ListPrice float64   `json:"listPrice" db:"list_price"`
}

// OrderRequest is the checkout payload.
type OrderRequest struct {
	AddressID uuid.UUID `json:"addressId" validate:"required"`
}

// OrderResponse is an order with its items and product details.
type OrderResponse struct {
	Order     Order             `json:"order"`
	Items     []OrderItem       `json:"items"`
	Products  []Product         `json:"products"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}
