package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
	"github.com/Sunny955/Ecommerce-backend/internal/users"
)

type orderFixture struct {
	svc       *OrderService
	orders    *mockOrderRepo
	carts     *mockCartRepo
	catalog   *mockCatalog
	publisher *mockPublisher
}

func newOrderFixture(carts *mockCartRepo, addr *users.Address) *orderFixture {
	f := &orderFixture{
		orders: newMockOrderRepo(),
		carts:  carts,
		catalog: &mockCatalog{
			products: map[string]*domain.Product{
				"p-phone": {ID: "p-phone", Title: "Phone", Price: 100, Quantity: 5, Sold: 0, Colors: []string{"Black"}},
			},
		},
		publisher: &mockPublisher{},
	}
	f.svc = NewOrderService(f.orders, f.carts, f.catalog, &mockUsers{address: addr}, f.publisher, zap.NewNop())
	return f
}

func completeAddress() *users.Address {
	return &users.Address{Line1: "1 Main St", City: "Pune", Postcode: "411001", Country: "IN"}
}

func discountedPhoneCart() *mockCartRepo {
	return &mockCartRepo{cart: &domain.Cart{
		UserID: "u1",
		Lines: []domain.CartLine{
			{ProductID: "p-phone", ProductName: "Phone", Count: 2, Color: "Black", UnitPrice: 100},
		},
		CartTotal:          200,
		TotalAfterDiscount: 180,
		Version:            1,
	}}
}

func TestPlaceOrder_WithCouponApplied(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())

	order, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		CashOnDelivery: true,
		CouponApplied:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 180.00, order.PaymentIntent.Amount)
	assert.Equal(t, domain.PaymentMethodCOD, order.PaymentIntent.Method)
	assert.Equal(t, domain.PaymentCashOnDelivery, order.PaymentIntent.Status)
	assert.NotEmpty(t, order.PaymentIntent.ID)
	assert.Equal(t, domain.OrderNotProcessed, order.Status)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 2, order.Lines[0].Count)

	// Stock: quantity down by 2, sold up by 2.
	phone := f.catalog.product("p-phone")
	assert.Equal(t, 3, phone.Quantity)
	assert.Equal(t, 2, phone.Sold)
	assert.True(t, order.StockCommitted)

	// Cart reset to empty with zero totals.
	cart := f.carts.getCart()
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.CartTotal)
	assert.Zero(t, cart.TotalAfterDiscount)

	assert.Equal(t, 1, f.publisher.orderCreated)
	assert.Equal(t, 1, f.publisher.stockChanged)
}

func TestPlaceOrder_WithoutCouponUsesCartTotal(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())

	order, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		CashOnDelivery: true,
		CouponApplied:  false,
	})
	require.NoError(t, err)
	assert.Equal(t, 200.00, order.PaymentIntent.Amount)
}

func TestPlaceOrder_CouponFlagWithoutDiscountUsesCartTotal(t *testing.T) {
	carts := discountedPhoneCart()
	carts.cart.TotalAfterDiscount = carts.cart.CartTotal // no discount applied
	f := newOrderFixture(carts, completeAddress())

	order, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		CashOnDelivery: true,
		CouponApplied:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 200.00, order.PaymentIntent.Amount)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture(&mockCartRepo{cart: &domain.Cart{UserID: "u1"}}, completeAddress())

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, f.orders.count(), "no order may be created")
	assert.Zero(t, f.catalog.adjustmentCalls())
}

func TestPlaceOrder_NoCartRecord(t *testing.T) {
	f := newOrderFixture(&mockCartRepo{}, completeAddress())

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestPlaceOrder_IncompleteAddress(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), &users.Address{Line1: "1 Main St", City: "Pune"})

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	assert.ErrorIs(t, err, domain.ErrIncompleteAddress)
	assert.Zero(t, f.orders.count(), "no order may be created")
	assert.Zero(t, f.catalog.adjustmentCalls(), "no stock may be decremented")
}

func TestPlaceOrder_UnknownUser(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), nil)
	f.svc = NewOrderService(f.orders, f.carts, f.catalog, &mockUsers{err: users.ErrUserNotFound}, f.publisher, zap.NewNop())

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	assert.ErrorIs(t, err, domain.ErrIncompleteAddress)
}

func TestPlaceOrder_RejectsNonCOD(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())

	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: false})
	assert.ErrorIs(t, err, domain.ErrUnsupportedPayment)
}

func TestPlaceOrder_StockFailureLeavesOrderPending(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())
	f.catalog.adjustErr = errors.New("mongo unavailable")

	order, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	require.NoError(t, err, "the order itself succeeded; stock commit is recovered out of band")

	assert.False(t, order.StockCommitted)
	stored := f.orders.get(order.ID)
	require.NotNil(t, stored)
	assert.False(t, stored.StockCommitted)
	assert.Empty(t, f.carts.getCart().Lines, "cart still resets")
}

func TestUpdateStatus_NormalizesAndApplies(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())
	placed, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), placed.ID, "processing", "payment successful")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderProcessing, updated.Status)
	assert.Equal(t, domain.PaymentSuccessful, updated.PaymentIntent.Status)

	stored := f.orders.get(placed.ID)
	assert.Equal(t, domain.OrderProcessing, stored.Status)
	assert.Equal(t, domain.PaymentSuccessful, stored.PaymentIntent.Status)
}

func TestUpdateStatus_RejectsUnknownVocabulary(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())
	placed, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	require.NoError(t, err)

	// Valid order status, bogus payment status: neither may be applied.
	_, err = f.svc.UpdateStatus(context.Background(), placed.ID, "Processing", "maybe later")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	stored := f.orders.get(placed.ID)
	assert.Equal(t, domain.OrderNotProcessed, stored.Status, "prior status unchanged")
	assert.Equal(t, domain.PaymentCashOnDelivery, stored.PaymentIntent.Status)
}

func TestUpdateStatus_RejectsIllegalTransition(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())
	placed, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), placed.ID, "Delivered", "Payment Successful")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus, "cannot skip from Not Processed to Delivered")
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())

	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), "Processing", "Processing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders_ScopedToOwner(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())
	_, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	require.NoError(t, err)

	mine, err := f.svc.ListOrders(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	others, err := f.svc.ListOrders(context.Background(), "u2")
	require.NoError(t, err)
	assert.Empty(t, others)

	all, err := f.svc.ListAllOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReconciler_RecoversPendingStockCommit(t *testing.T) {
	f := newOrderFixture(discountedPhoneCart(), completeAddress())
	f.catalog.adjustErr = errors.New("mongo unavailable")

	order, err := f.svc.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{CashOnDelivery: true})
	require.NoError(t, err)
	require.False(t, order.StockCommitted)

	// Store recovers; the reconciler pass should finish the saga.
	f.catalog.adjustErr = nil
	reconciler := NewStockReconciler(f.orders, f.catalog, f.publisher, 0, zap.NewNop())
	reconciler.reconcile(context.Background())

	stored := f.orders.get(order.ID)
	assert.True(t, stored.StockCommitted)
	phone := f.catalog.product("p-phone")
	assert.Equal(t, 3, phone.Quantity)
	assert.Equal(t, 2, phone.Sold)
}
