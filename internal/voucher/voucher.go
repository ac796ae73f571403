package voucher

import (
	"strings"

	"furnistore/internal/model"
	"furnistore/internal/pricing"
)

// Catalog is a read-only set of vouchers keyed by code.
type Catalog interface {
	// Lookup returns the voucher for code. Codes are case-insensitive.
	Lookup(code string) (model.Voucher, bool)

	// List returns every voucher ordered by code.
	List() []model.Voucher

	// Size returns the number of vouchers in the catalog.
	Size() int
}

// NormaliseCode trims and upper-cases a voucher code.
func NormaliseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ToPricing converts a catalog voucher into the aggregator's input.
func ToPricing(v model.Voucher) *pricing.Voucher {
	return &pricing.Voucher{
		Title:        v.Title,
		MinimumSpend: v.MinimumSpend,
	}
}
