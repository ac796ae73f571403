package voucher

import (
	"sort"

	"furnistore/internal/model"
)

// mapCatalog implements Catalog using a map for O(1) lookups.
type mapCatalog struct {
	vouchers map[string]model.Voucher
}

// NewMapCatalog creates a catalog from vouchers. Later entries override
// earlier entries with the same code.
func NewMapCatalog(vouchers ...model.Voucher) Catalog {
	c := &mapCatalog{vouchers: make(map[string]model.Voucher, len(vouchers))}
	for _, v := range vouchers {
		c.add(v)
	}
	return c
}

// Lookup returns the voucher stored under code.
func (c *mapCatalog) Lookup(code string) (model.Voucher, bool) {
	v, ok := c.vouchers[NormaliseCode(code)]
	return v, ok
}

// List returns all vouchers sorted by code.
func (c *mapCatalog) List() []model.Voucher {
	out := make([]model.Voucher, 0, len(c.vouchers))
	for _, v := range c.vouchers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Size returns the number of vouchers.
func (c *mapCatalog) Size() int {
	return len(c.vouchers)
}

func (c *mapCatalog) add(v model.Voucher) {
	v.Code = NormaliseCode(v.Code)
	c.vouchers[v.Code] = v
}
