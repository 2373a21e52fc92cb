package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sunny955/Ecommerce-backend/internal/catalog"
	"github.com/Sunny955/Ecommerce-backend/internal/domain"
	"github.com/Sunny955/Ecommerce-backend/internal/events"
	"github.com/Sunny955/Ecommerce-backend/internal/orderstore"
	"github.com/Sunny955/Ecommerce-backend/internal/repository"
	"github.com/Sunny955/Ecommerce-backend/internal/users"
)

// PlaceOrderRequest carries the checkout flags from the client. Only cash on
// delivery is supported; CouponApplied selects the discounted total.
type PlaceOrderRequest struct {
	CashOnDelivery bool
	CouponApplied  bool
}

type OrderService struct {
	orders  orderstore.OrderRepository
	carts   repository.CartRepository
	catalog catalog.Lookup
	users   users.Lookup
	events  events.Publisher
	log     *zap.Logger
}

func NewOrderService(
	orders orderstore.OrderRepository,
	carts repository.CartRepository,
	cat catalog.Lookup,
	userLookup users.Lookup,
	publisher events.Publisher,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:  orders,
		carts:   carts,
		catalog: cat,
		users:   userLookup,
		events:  publisher,
		log:     log,
	}
}

// PlaceOrder converts the owner's cart into an immutable order, decrements
// catalog stock and resets the cart.
//
// The order is saved first with a pending-stock marker, then the bulk stock
// update runs, then the marker is cleared. A crash between the first two
// writes leaves a pending order for the reconciler to pick up instead of
// silently drifting stock.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*domain.Order, error) {
	if !req.CashOnDelivery {
		return nil, domain.ErrUnsupportedPayment
	}

	address, err := s.users.GetAddress(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, domain.ErrIncompleteAddress
		}
		return nil, err
	}
	if !address.Complete() {
		return nil, domain.ErrIncompleteAddress
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	amount := cart.CartTotal
	if req.CouponApplied && cart.TotalAfterDiscount > 0 && cart.TotalAfterDiscount < cart.CartTotal {
		amount = cart.TotalAfterDiscount
	}

	now := time.Now()
	order := &domain.Order{
		ID:     uuid.New(),
		UserID: userID,
		Lines:  orderLines(cart.Lines),
		PaymentIntent: domain.PaymentIntent{
			ID:        uuid.NewString(),
			Method:    domain.PaymentMethodCOD,
			Amount:    amount,
			Status:    domain.PaymentCashOnDelivery,
			CreatedAt: now,
		},
		Status:    domain.OrderNotProcessed,
		CreatedAt: now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.log.Error("failed to create order", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// Best-effort here; a failure leaves the order pending and the
	// reconciler retries the decrement out of band.
	if err := s.commitStock(ctx, order); err != nil {
		s.log.Error("stock commit deferred to reconciler",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	if err := s.carts.ResetCart(ctx, userID); err != nil {
		s.log.Error("failed to reset cart after order",
			zap.String("user_id", userID), zap.Error(err))
	} else {
		s.events.CartChanged(ctx, userID)
	}

	s.events.OrderCreated(ctx, order.ID.String(), userID)
	return order, nil
}

// commitStock applies the bulk decrement and clears the pending marker.
func (s *OrderService) commitStock(ctx context.Context, order *domain.Order) error {
	if err := s.catalog.AdjustStock(ctx, order.Adjustments()); err != nil {
		return err
	}
	if err := s.orders.MarkStockCommitted(ctx, order.ID); err != nil {
		return err
	}
	order.StockCommitted = true

	productIDs := make([]string, 0, len(order.Lines))
	for _, l := range order.Lines {
		productIDs = append(productIDs, l.ProductID)
	}
	s.events.StockChanged(ctx, productIDs)
	return nil
}

// UpdateStatus validates both status strings against their vocabularies and
// the order lifecycle before applying either; an invalid pair changes
// nothing.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status, paymentStatus string) (*domain.Order, error) {
	next, ok := domain.ParseOrderStatus(status)
	nextPayment, okPayment := domain.ParsePaymentStatus(paymentStatus)
	if !ok || !okPayment {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.orders.UpdateStatus(ctx, orderID, next, nextPayment); err != nil {
		if errors.Is(err, orderstore.ErrOrderNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.log.Error("failed to update order status",
			zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, err
	}

	order.Status = next
	order.PaymentIntent.Status = nextPayment
	return order, nil
}

// GetOrder returns one order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.getOrder(ctx, orderID)
}

// ListOrders returns the owner's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list orders", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns every order; reserved for the privileged listing.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		s.log.Error("failed to list all orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderstore.ErrOrderNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func orderLines(lines []domain.CartLine) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Count:       l.Count,
			Color:       l.Color,
			UnitPrice:   l.UnitPrice,
		})
	}
	return out
}
