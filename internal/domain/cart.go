package domain

import "time"

// DefaultColor is used when a product declares no variants and the client
// did not ask for one.
const DefaultColor = "General"

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	UserID    string     `bson:"user_id" json:"userId"`
	Lines     []CartLine `bson:"lines" json:"lines"`
	CartTotal float64    `bson:"cart_total" json:"cartTotal"`
	// TotalAfterDiscount mirrors CartTotal until a coupon is applied.
	TotalAfterDiscount float64 `bson:"total_after_discount" json:"totalAfterDiscount"`
	// Version is the optimistic concurrency token; merges are committed
	// conditionally on it and retried on conflict.
	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"-"`
}

// CartLine is one product+variant entry. UnitPrice and ProductName are
// snapshotted from the catalog when the line is added, not re-read at order
// time.
type CartLine struct {
	ProductID   string  `bson:"product_id" json:"productId"`
	ProductName string  `bson:"product_name" json:"productName"`
	Count       int     `bson:"count" json:"count"`
	Color       string  `bson:"color" json:"color"`
	UnitPrice   float64 `bson:"unit_price" json:"unitPrice"`
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Count)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// LineIndex returns the position of the line matching (productID, color),
// or -1. Merges use it to increase counts in place instead of appending
// duplicates.
func (c *Cart) LineIndex(productID, color string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Color == color {
			return i
		}
	}
	return -1
}

// RecalculateTotal restores the invariant cartTotal == sum of line subtotals.
func (c *Cart) RecalculateTotal() {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	c.CartTotal = total
}
