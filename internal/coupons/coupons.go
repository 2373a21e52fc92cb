package coupons

import (
	"context"
	"errors"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

var ErrCouponNotFound = errors.New("coupon not found")

// Lookup resolves a normalized coupon code to its discount and validity
// window. Read-only: the discount calculator never mutates coupons.
type Lookup interface {
	GetCoupon(ctx context.Context, code string) (*domain.Coupon, error)
}
