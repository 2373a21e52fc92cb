package domain

import "strings"

// OrderStatus is the order lifecycle:
//
//	Not Processed -> Processing -> Dispatched -> Delivered
//
// with Cancelled reachable from any non-terminal state.
type OrderStatus string

const (
	OrderNotProcessed OrderStatus = "Not Processed"
	OrderProcessing   OrderStatus = "Processing"
	OrderDispatched   OrderStatus = "Dispatched"
	OrderDelivered    OrderStatus = "Delivered"
	OrderCancelled    OrderStatus = "Cancelled"
)

func (s OrderStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo enforces the lifecycle. Re-asserting the current status is
// a permitted no-op.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	if next == OrderCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderNotProcessed:
		return next == OrderProcessing
	case OrderProcessing:
		return next == OrderDispatched
	case OrderDispatched:
		return next == OrderDelivered
	default:
		return false
	}
}

// PaymentStatus is the controlled vocabulary for payment intent status. It
// is validated independently of OrderStatus but updated in the same request.
type PaymentStatus string

const (
	PaymentProcessing     PaymentStatus = "Processing"
	PaymentCashOnDelivery PaymentStatus = "Cash On Delivery"
	PaymentSuccessful     PaymentStatus = "Payment Successful"
	PaymentFailed         PaymentStatus = "Payment Failed"
	PaymentDeclined       PaymentStatus = "Declined"
)

func (s PaymentStatus) String() string { return string(s) }

// ParseOrderStatus title-cases the input and matches it against the closed
// set. Anything outside the set is rejected.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(titleCase(s)) {
	case OrderNotProcessed:
		return OrderNotProcessed, true
	case OrderProcessing:
		return OrderProcessing, true
	case OrderDispatched:
		return OrderDispatched, true
	case OrderDelivered:
		return OrderDelivered, true
	case OrderCancelled:
		return OrderCancelled, true
	}
	return "", false
}

// ParsePaymentStatus is the payment-side counterpart of ParseOrderStatus.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(titleCase(s)) {
	case PaymentProcessing:
		return PaymentProcessing, true
	case PaymentCashOnDelivery:
		return PaymentCashOnDelivery, true
	case PaymentSuccessful:
		return PaymentSuccessful, true
	case PaymentFailed:
		return PaymentFailed, true
	case PaymentDeclined:
		return PaymentDeclined, true
	}
	return "", false
}

// titleCase normalizes "cash on delivery" / "CASH ON DELIVERY" to
// "Cash On Delivery". Statuses are plain ASCII words, so per-word casing is
// enough.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
