package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sunny955/Ecommerce-backend/internal/cache"
	"github.com/Sunny955/Ecommerce-backend/internal/coupons"
	"github.com/Sunny955/Ecommerce-backend/internal/domain"
	"github.com/Sunny955/Ecommerce-backend/internal/orderstore"
	"github.com/Sunny955/Ecommerce-backend/internal/repository"
	"github.com/Sunny955/Ecommerce-backend/internal/users"
)

type mockCartRepo struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error

	// conflictsRemaining makes UpdateCartVersioned fail with a version
	// conflict that many times before accepting the write.
	conflictsRemaining int
}

func (m *mockCartRepo) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	copied := *m.cart
	copied.Lines = append([]domain.CartLine(nil), m.cart.Lines...)
	return &copied, nil
}

func (m *mockCartRepo) ReplaceCart(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	cart.Version++
	m.cart = cart
	return nil
}

func (m *mockCartRepo) UpdateCartVersioned(_ context.Context, cart *domain.Cart, expectedVersion int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.conflictsRemaining > 0 {
		m.conflictsRemaining--
		m.cart.Version++ // a concurrent writer got there first
		return repository.ErrVersionConflict
	}
	if m.cart == nil || m.cart.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	cart.Version = expectedVersion + 1
	m.cart = cart
	return nil
}

func (m *mockCartRepo) SetDiscount(_ context.Context, _ string, totalAfterDiscount float64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart.TotalAfterDiscount = totalAfterDiscount
	return nil
}

func (m *mockCartRepo) ResetCart(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{UserID: userID}
	}
	m.cart.Lines = []domain.CartLine{}
	m.cart.CartTotal = 0
	m.cart.TotalAfterDiscount = 0
	m.cart.Version++
	return nil
}

func (m *mockCartRepo) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCatalog struct {
	m        sync.RWMutex
	products map[string]*domain.Product
	err      error

	adjustErr   error
	adjustments [][]domain.StockAdjustment
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockCatalog) AdjustStock(_ context.Context, adjustments []domain.StockAdjustment) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.adjustErr != nil {
		return m.adjustErr
	}
	for _, adj := range adjustments {
		if p, ok := m.products[adj.ProductID]; ok {
			p.Quantity -= adj.Count
			p.Sold += adj.Count
		}
	}
	m.adjustments = append(m.adjustments, adjustments)
	return nil
}

func (m *mockCatalog) product(id string) *domain.Product {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.products[id]
}

func (m *mockCatalog) adjustmentCalls() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.adjustments)
}

type mockCoupons struct {
	m       sync.RWMutex
	coupons map[string]*domain.Coupon
	// lastCode records the code the lookup actually received.
	lastCode string
}

func (m *mockCoupons) GetCoupon(_ context.Context, code string) (*domain.Coupon, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.lastCode = code
	coupon, ok := m.coupons[code]
	if !ok {
		return nil, coupons.ErrCouponNotFound
	}
	return coupon, nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

type mockPublisher struct {
	m            sync.Mutex
	cartChanged  int
	stockChanged int
	orderCreated int
}

func (m *mockPublisher) CartChanged(context.Context, string) {
	m.m.Lock()
	defer m.m.Unlock()
	m.cartChanged++
}

func (m *mockPublisher) StockChanged(context.Context, []string) {
	m.m.Lock()
	defer m.m.Unlock()
	m.stockChanged++
}

func (m *mockPublisher) OrderCreated(context.Context, string, string) {
	m.m.Lock()
	defer m.m.Unlock()
	m.orderCreated++
}

type mockUsers struct {
	address *users.Address
	err     error
}

func (m *mockUsers) GetAddress(context.Context, string) (*users.Address, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.address, nil
}

type mockOrderRepo struct {
	m      sync.RWMutex
	orders map[uuid.UUID]*domain.Order

	createErr error
	markErr   error
	listErr   error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, orderstore.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) ListOrdersByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAllOrders(context.Context) ([]*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return orderstore.ErrOrderNotFound
	}
	order.Status = status
	order.PaymentIntent.Status = paymentStatus
	return nil
}

func (m *mockOrderRepo) MarkStockCommitted(_ context.Context, id uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	order, ok := m.orders[id]
	if !ok {
		return orderstore.ErrOrderNotFound
	}
	order.StockCommitted = true
	return nil
}

func (m *mockOrderRepo) ListStockPending(_ context.Context, _ time.Duration) ([]*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Order
	for _, o := range m.orders {
		if !o.StockCommitted {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) get(id uuid.UUID) *domain.Order {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.orders[id]
}

func (m *mockOrderRepo) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}
