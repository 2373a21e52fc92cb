package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethodCOD is the only payment method supported by this backend.
const PaymentMethodCOD = "Cash On Delivery"

// OrderLine is a decoupled snapshot of a cart line at placement time. It
// references the product by id only; later catalog edits do not touch it.
type OrderLine struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Count       int     `json:"count"`
	Color       string  `json:"color"`
	UnitPrice   float64 `json:"unitPrice"`
}

// PaymentIntent captures payment method, amount and status for an order.
// Amount is immutable once the order exists; only Status may transition.
type PaymentIntent struct {
	ID        string        `json:"id"`
	Method    string        `json:"method"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Order is the immutable record created from a cart at checkout. Lines and
// the payment amount never change after creation; Status and
// PaymentIntent.Status move through their controlled vocabularies.
type Order struct {
	ID            uuid.UUID     `json:"orderId"`
	UserID        string        `json:"userId"`
	Lines         []OrderLine   `json:"lines"`
	PaymentIntent PaymentIntent `json:"paymentIntent"`
	Status        OrderStatus   `json:"orderStatus"`
	// StockCommitted flips to true once the bulk stock decrement for this
	// order has been applied. Orders left pending are retried by the
	// reconciler.
	StockCommitted bool      `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`
}

// Adjustments derives the bulk stock update for the order's lines.
func (o *Order) Adjustments() []StockAdjustment {
	adj := make([]StockAdjustment, 0, len(o.Lines))
	for _, l := range o.Lines {
		adj = append(adj, StockAdjustment{ProductID: l.ProductID, Count: l.Count})
	}
	return adj
}
