package events

import (
	"context"
	"time"
)

// Topic carries every entity-changed notification emitted by the core.
// The caching layer (and anything else interested) subscribes to it instead
// of the core reaching into caches directly.
const Topic = "store-entity-events"

const (
	KindCartChanged  = "cart_changed"
	KindStockChanged = "stock_changed"
	KindOrderCreated = "order_created"
)

type Event struct {
	Kind       string    `json:"kind"`
	UserID     string    `json:"user_id,omitempty"`
	ProductIDs []string  `json:"product_ids,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits entity-changed events after successful mutations. Emission
// is best-effort: a publish failure is logged and never fails the request
// that triggered it.
type Publisher interface {
	CartChanged(ctx context.Context, userID string)
	StockChanged(ctx context.Context, productIDs []string)
	OrderCreated(ctx context.Context, orderID, userID string)
}

// NopPublisher discards events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) CartChanged(context.Context, string)    {}
func (NopPublisher) StockChanged(context.Context, []string) {}
func (NopPublisher) OrderCreated(context.Context, string, string) {
}
