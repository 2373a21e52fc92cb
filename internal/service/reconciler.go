package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Sunny955/Ecommerce-backend/internal/catalog"
	"github.com/Sunny955/Ecommerce-backend/internal/events"
	"github.com/Sunny955/Ecommerce-backend/internal/orderstore"
)

// pendingAge is how old a pending order must be before the reconciler
// touches it, so it never races a placement still in flight.
const pendingAge = time.Minute

// StockReconciler is the recovery pass for the placement saga: it retries
// the bulk stock decrement for orders whose commit never landed.
type StockReconciler struct {
	orders   orderstore.OrderRepository
	catalog  catalog.Lookup
	events   events.Publisher
	interval time.Duration
	log      *zap.Logger
}

func NewStockReconciler(
	orders orderstore.OrderRepository,
	cat catalog.Lookup,
	publisher events.Publisher,
	interval time.Duration,
	log *zap.Logger,
) *StockReconciler {
	return &StockReconciler{
		orders:   orders,
		catalog:  cat,
		events:   publisher,
		interval: interval,
		log:      log,
	}
}

func (r *StockReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reconcile(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *StockReconciler) reconcile(ctx context.Context) {
	pending, err := r.orders.ListStockPending(ctx, pendingAge)
	if err != nil {
		r.log.Error("failed to list stock-pending orders", zap.Error(err))
		return
	}

	for _, order := range pending {
		if err := r.catalog.AdjustStock(ctx, order.Adjustments()); err != nil {
			r.log.Error("failed to re-apply stock decrement",
				zap.String("order_id", order.ID.String()), zap.Error(err))
			continue
		}
		if err := r.orders.MarkStockCommitted(ctx, order.ID); err != nil {
			r.log.Error("failed to mark stock committed",
				zap.String("order_id", order.ID.String()), zap.Error(err))
			continue
		}

		productIDs := make([]string, 0, len(order.Lines))
		for _, l := range order.Lines {
			productIDs = append(productIDs, l.ProductID)
		}
		r.events.StockChanged(ctx, productIDs)

		r.log.Info("recovered pending stock commit",
			zap.String("order_id", order.ID.String()),
			zap.Int("lines", len(order.Lines)))
	}
}
