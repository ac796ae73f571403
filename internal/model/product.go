package model

import "time"

// Product represents a piece of furniture in the catalogue.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	MRP       float64   `json:"mrp" db:"mrp"`
	Category  string    `json:"category" db:"category"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	Rating    float64   `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// DiscountPercent is derived from Price and MRP on read.
	DiscountPercent int `json:"discountPercent" db:"-"`
}

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	Category string
	Limit    int
	Offset   int
}
