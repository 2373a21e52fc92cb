package catalog

import (
	"context"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

// Lookup is the catalog collaborator the cart-to-order pipeline depends on.
// Consumers define this interface; the MongoDB implementation satisfies it.
type Lookup interface {
	// GetProduct returns current price, stock and variant set for a product.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// AdjustStock applies the order-time bulk update: for each adjustment,
	// quantity decreases and sold increases by Count. The write is issued as
	// a single bulk operation across the product documents.
	AdjustStock(ctx context.Context, adjustments []domain.StockAdjustment) error
}
