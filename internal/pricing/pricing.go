// Package pricing computes the price breakdown shown for a cart.
package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// FallbackVoucherRate is applied when a voucher title carries no amount.
const FallbackVoucherRate = 0.05

// voucherAmountPattern matches a rupee-prefixed integer such as "₹500".
var voucherAmountPattern = regexp.MustCompile(`₹(\d+)`)

// LineItem is one cart line as seen by the aggregator.
type LineItem struct {
	UnitPrice float64 `json:"unitPrice"`
	ListPrice float64 `json:"listPrice"`
	Quantity  int     `json:"quantity"`
}

// Voucher is the subset of a voucher the aggregator reads.
type Voucher struct {
	Title        string  `json:"title"`
	MinimumSpend float64 `json:"minimumSpend"`
}

// Breakdown is recomputed from scratch on every call.
type Breakdown struct {
	TotalMRP          float64 `json:"totalMrp"`
	TotalPrice        float64 `json:"totalPrice"`
	ProductDiscount   float64 `json:"productDiscount"`
	VoucherDiscount   float64 `json:"voucherDiscount"`
	VoucherApplicable bool    `json:"isVoucherApplicable"`
	FinalAmount       float64 `json:"finalAmount"`
}

// Compute aggregates items and applies v when the minimum spend is met.
// Inputs are not validated and no amount is clamped: a voucher larger than
// the cart total yields a negative FinalAmount.
func Compute(items []LineItem, v *Voucher) Breakdown {
	var b Breakdown
	for _, item := range items {
		qty := float64(item.Quantity)
		b.TotalMRP += item.ListPrice * qty
		b.TotalPrice += item.UnitPrice * qty
	}
	b.ProductDiscount = b.TotalMRP - b.TotalPrice

	b.VoucherApplicable = v != nil && b.TotalPrice >= v.MinimumSpend
	if b.VoucherApplicable {
		b.VoucherDiscount = VoucherAmount(v.Title, b.TotalPrice)
	}

	b.FinalAmount = b.TotalPrice - b.VoucherDiscount
	return b
}

// VoucherAmount returns the first "₹<n>" amount in title, or 5% of
// totalPrice rounded half up when the title has none (or it parses to zero).
func VoucherAmount(title string, totalPrice float64) float64 {
	if amount := ParseTitleAmount(title); amount > 0 {
		return float64(amount)
	}
	return roundHalfUp(totalPrice * FallbackVoucherRate)
}

// ParseTitleAmount extracts the integer following the first "₹" in title.
// It returns 0 when there is no match or the number does not fit an int64.
func ParseTitleAmount(title string) int64 {
	match := voucherAmountPattern.FindStringSubmatch(title)
	if match == nil {
		return 0
	}
	amount, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0
	}
	return amount
}

// roundHalfUp rounds x to the nearest integer with ties toward +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ItemError describes a line that would produce inconsistent totals.
type ItemError struct {
	Index  int
	Reason string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

// ValidateItems is an opt-in strictness check. Compute never calls it.
func ValidateItems(items []LineItem) error {
	for i, item := range items {
		switch {
		case item.Quantity < 1:
			return &ItemError{Index: i, Reason: "quantity must be at least 1"}
		case item.UnitPrice < 0:
			return &ItemError{Index: i, Reason: "unit price must not be negative"}
		case item.ListPrice < item.UnitPrice:
			return &ItemError{Index: i, Reason: "list price is below unit price"}
		}
	}
	return nil
}

// DiscountPercent is the whole-number percentage off list price, 0 when the
// list price is not positive.
func DiscountPercent(unitPrice, listPrice float64) int {
	if listPrice <= 0 {
		return 0
	}
	return int(roundHalfUp((listPrice - unitPrice) / listPrice * 100))
}
