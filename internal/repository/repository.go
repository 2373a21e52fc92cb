package repository

import (
	"context"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

// CartRepository defines the interface for cart data operations.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	// GetCart returns the owner's current cart.
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)

	// ReplaceCart discards any prior cart for the owner and persists the
	// given one wholesale.
	ReplaceCart(ctx context.Context, cart *domain.Cart) error

	// UpdateCartVersioned commits a read-modify-write conditioned on the
	// version observed at read time. Returns ErrVersionConflict when a
	// concurrent writer got there first; callers re-read and retry.
	UpdateCartVersioned(ctx context.Context, cart *domain.Cart, expectedVersion int64) error

	// SetDiscount writes the derived totalAfterDiscount field only. Lines and
	// cartTotal are never touched by this path.
	SetDiscount(ctx context.Context, userID string, totalAfterDiscount float64) error

	// ResetCart empties the owner's cart: lines=[], both totals zero.
	// Idempotent; resetting an absent or already-empty cart succeeds.
	ResetCart(ctx context.Context, userID string) error
}
