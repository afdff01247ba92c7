package models

import (
	"github.com/shopspring/decimal"
)

// CartSnapshot is the authoritative cart state held by the store API. It is
// always replaced as a whole after a fetch, never patched locally.
type CartSnapshot struct {
	Carts      []CartItem      `json:"carts"`
	Total      decimal.Decimal `json:"total"`
	FinalTotal decimal.Decimal `json:"final_total"`
}

// CartItem is one cart line. ID identifies the line itself and is what
// removal uses; ProductID points at the catalogue entry.
type CartItem struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Qty        int             `json:"qty"`
	Total      decimal.Decimal `json:"total"`
	FinalTotal decimal.Decimal `json:"final_total"`
	Product    Product         `json:"product"`
}

// EmptyCart returns a snapshot with no lines and zero totals.
func EmptyCart() CartSnapshot {
	return CartSnapshot{
		Carts:      []CartItem{},
		Total:      decimal.Zero,
		FinalTotal: decimal.Zero,
	}
}

// Count returns the number of units across all lines.
func (c CartSnapshot) Count() int {
	n := 0
	for _, item := range c.Carts {
		n += item.Qty
	}
	return n
}

// Find returns the line holding productID, if any.
func (c CartSnapshot) Find(productID string) (CartItem, bool) {
	for _, item := range c.Carts {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// CartLine is the payload sent when adding or updating a cart line.
type CartLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}
