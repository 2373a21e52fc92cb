package domain

import (
	"strings"
	"time"
)

// Coupon is a named percentage discount. Codes are stored normalized to upper
// case and matched case-insensitively.
type Coupon struct {
	Code            string    `bson:"code"`
	DiscountPercent int       `bson:"discount_percent"`
	ExpiresAt       time.Time `bson:"expires_at"`
}

// Expired reports whether the coupon's validity window has passed.
func (c *Coupon) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// NormalizeCouponCode upper-cases and trims a client-supplied code so lookups
// match the stored form.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
