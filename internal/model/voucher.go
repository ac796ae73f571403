package model

import "time"

// Voucher is an entry of the voucher catalogue. The discount amount is not
// stored: it is parsed from Title when the voucher is applied.
type Voucher struct {
	Code         string     `json:"code"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	MinimumSpend float64    `json:"minimumSpend"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the voucher is past its expiry at now.
func (v Voucher) Expired(now time.Time) bool {
	return v.ExpiresAt != nil && now.After(*v.ExpiresAt)
}

// VoucherSelectRequest is the payload for selecting a voucher for the cart.
type VoucherSelectRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}
