package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation failures are detected before any write and carry enough context
// for the caller to correct the request.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrNoCart             = errors.New("no cart found for user")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCoupon      = errors.New("invalid coupon")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrIncompleteAddress  = errors.New("shipping address is incomplete")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUnsupportedPayment = errors.New("unsupported payment method")
	ErrInvalidCount       = errors.New("count must be at least 1")
)

// InsufficientStockError reports the quantity actually available so the
// client can lower the requested count.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, only %d available",
		e.ProductName, e.Requested, e.Available)
}

// InvalidVariantError reports the allowed variant set for the product.
type InvalidVariantError struct {
	ProductName string
	Color       string
	Allowed     []string
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("color %q is not available for %q, allowed: %s",
		e.Color, e.ProductName, strings.Join(e.Allowed, ", "))
}
