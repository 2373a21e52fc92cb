package orderstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository defines the interface for order persistence. Orders are
// append-mostly: lines and payment amount never change after CreateOrder,
// only the two status fields and the stock-commit marker do.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)

	// UpdateStatus applies a validated (orderStatus, paymentStatus) pair in a
	// single write.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error

	// MarkStockCommitted clears the pending-stock marker set at creation.
	MarkStockCommitted(ctx context.Context, id uuid.UUID) error

	// ListStockPending returns orders whose stock decrement has not committed
	// and that are older than the given age. The reconciler retries these.
	ListStockPending(ctx context.Context, olderThan time.Duration) ([]*domain.Order, error)
}
