package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Sunny955/Ecommerce-backend/internal/cache"
	"github.com/Sunny955/Ecommerce-backend/internal/catalog"
	"github.com/Sunny955/Ecommerce-backend/internal/coupons"
	"github.com/Sunny955/Ecommerce-backend/internal/domain"
	"github.com/Sunny955/Ecommerce-backend/internal/events"
	"github.com/Sunny955/Ecommerce-backend/internal/repository"
)

// mergeRetries bounds the optimistic read-modify-write loop for cart merges.
const mergeRetries = 3

// LineRequest is one requested line in a cart submission or merge.
type LineRequest struct {
	ProductID string
	Count     int
	Color     string
}

// CartLineView is a cart line expanded with current catalog data for display.
// UnitPrice stays the add-time snapshot; CurrentPrice/CurrentName reflect the
// catalog now.
type CartLineView struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	Count        int     `json:"count"`
	Color        string  `json:"color"`
	UnitPrice    float64 `json:"unitPrice"`
	CurrentPrice float64 `json:"currentPrice"`
}

type CartView struct {
	Lines              []CartLineView `json:"lines"`
	CartTotal          float64        `json:"cartTotal"`
	TotalAfterDiscount float64        `json:"totalAfterDiscount"`
}

type CartService struct {
	repo    repository.CartRepository
	catalog catalog.Lookup
	coupons coupons.Lookup
	cache   cache.CartCache
	events  events.Publisher
	log     *zap.Logger
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	cat catalog.Lookup,
	coup coupons.Lookup,
	cartCache cache.CartCache,
	publisher events.Publisher,
	log *zap.Logger,
) *CartService {
	return &CartService{
		repo:    repo,
		catalog: cat,
		coupons: coup,
		cache:   cartCache,
		events:  publisher,
		log:     log,
	}
}

// ReplaceCart validates the requested lines against the catalog and persists
// a fresh cart for the owner, discarding any prior one. Prices are
// snapshotted from the catalog at this moment.
func (s *CartService) ReplaceCart(ctx context.Context, userID string, reqs []LineRequest) (*domain.Cart, error) {
	lines := make([]domain.CartLine, 0, len(reqs))
	for _, req := range reqs {
		line, err := s.validateLine(ctx, req, 0)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	cart := &domain.Cart{
		UserID: userID,
		Lines:  lines,
	}
	cart.RecalculateTotal()
	cart.TotalAfterDiscount = cart.CartTotal

	if err := s.repo.ReplaceCart(ctx, cart); err != nil {
		s.log.Error("failed to replace cart", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.events.CartChanged(ctx, userID)
	return cart, nil
}

// MergeLines merges additional lines into an existing cart. The whole batch
// is validated before anything is written; a single bad line aborts the
// merge. Lines matching an existing (productID, color) pair increase that
// line's count, everything else is appended. The commit is conditioned on
// the cart version read at the start and retried on conflict.
func (s *CartService) MergeLines(ctx context.Context, userID string, reqs []LineRequest) (*domain.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < mergeRetries; attempt++ {
		cart, err := s.repo.GetCart(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return nil, domain.ErrNoCart
			}
			return nil, err
		}

		merged, err := s.mergeIntoCart(ctx, cart, reqs)
		if err != nil {
			return nil, err
		}

		err = s.repo.UpdateCartVersioned(ctx, merged, cart.Version)
		if err == nil {
			s.events.CartChanged(ctx, userID)
			return merged, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			s.log.Error("failed to merge cart", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("cart merge for user %s did not converge: %w", userID, lastErr)
}

// mergeIntoCart builds the merged cart without mutating the input. Stock is
// validated against the combined count so a merged line still honors the
// catalog quantity.
func (s *CartService) mergeIntoCart(ctx context.Context, cart *domain.Cart, reqs []LineRequest) (*domain.Cart, error) {
	merged := &domain.Cart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Lines:     append([]domain.CartLine(nil), cart.Lines...),
		CreatedAt: cart.CreatedAt,
	}

	for _, req := range reqs {
		// Resolve the default color first so (productID, color) matching
		// sees the same value validation assigns.
		probe, err := s.validateLine(ctx, req, 0)
		if err != nil {
			return nil, err
		}

		idx := merged.LineIndex(probe.ProductID, probe.Color)
		if idx < 0 {
			merged.Lines = append(merged.Lines, probe)
			continue
		}

		// Re-validate with the combined count against current stock.
		if _, err := s.validateLine(ctx, req, merged.Lines[idx].Count); err != nil {
			return nil, err
		}
		merged.Lines[idx].Count += probe.Count
	}

	merged.RecalculateTotal()
	// A merge changes the undiscounted total; any previously applied coupon
	// must be re-applied to the new total.
	merged.TotalAfterDiscount = merged.CartTotal
	return merged, nil
}

// validateLine resolves the product and enforces the stock and variant
// invariants. existingCount is added on top of the requested count when a
// merge grows a line that is already in the cart.
func (s *CartService) validateLine(ctx context.Context, req LineRequest, existingCount int) (domain.CartLine, error) {
	if req.Count < 1 {
		return domain.CartLine{}, domain.ErrInvalidCount
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return domain.CartLine{}, err
	}

	requested := req.Count + existingCount
	if requested > product.Quantity {
		return domain.CartLine{}, &domain.InsufficientStockError{
			ProductName: product.Title,
			Requested:   requested,
			Available:   product.Quantity,
		}
	}

	color := req.Color
	if color == "" {
		color = product.DefaultVariant()
	} else if !product.HasVariant(color) {
		return domain.CartLine{}, &domain.InvalidVariantError{
			ProductName: product.Title,
			Color:       color,
			Allowed:     product.Colors,
		}
	}

	return domain.CartLine{
		ProductID:   product.ID,
		ProductName: product.Title,
		Count:       req.Count,
		Color:       color,
		UnitPrice:   product.Price,
	}, nil
}

// GetCart returns the owner's cart expanded against current catalog data.
// Reads go through the cache; misses fall back to the repository and warm
// the cache in the background.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache get error", zap.Error(err)) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				// Carts come into existence on first write; reading before
				// that sees an empty one.
				return &domain.Cart{UserID: userID}, nil
			}
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				s.log.Warn("cache set error", zap.Error(errSet))
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return s.expandCart(ctx, v.(*domain.Cart))
}

// expandCart decorates each line with the product's current price for
// display. Snapshotted prices on the lines are left untouched.
func (s *CartService) expandCart(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	view := &CartView{
		Lines:              make([]CartLineView, 0, len(cart.Lines)),
		CartTotal:          cart.CartTotal,
		TotalAfterDiscount: cart.TotalAfterDiscount,
	}

	for _, line := range cart.Lines {
		lv := CartLineView{
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			Count:        line.Count,
			Color:        line.Color,
			UnitPrice:    line.UnitPrice,
			CurrentPrice: line.UnitPrice,
		}
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err == nil {
			lv.ProductName = product.Title
			lv.CurrentPrice = product.Price
		} else if !errors.Is(err, domain.ErrProductNotFound) {
			return nil, fmt.Errorf("failed to expand cart line: %w", err)
		}
		// A product deleted from the catalog keeps its snapshotted name.
		view.Lines = append(view.Lines, lv)
	}

	return view, nil
}

// EmptyCart resets the owner's cart. Calling it on an already-empty or
// absent cart is a successful no-op.
func (s *CartService) EmptyCart(ctx context.Context, userID string) error {
	if err := s.repo.ResetCart(ctx, userID); err != nil {
		s.log.Error("failed to empty cart", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.events.CartChanged(ctx, userID)
	return nil
}

// ApplyCoupon recomputes totalAfterDiscount from the current cart total and
// the coupon's percentage. Reapplying overwrites the previous discount;
// discounts never stack.
func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (float64, error) {
	normalized := domain.NormalizeCouponCode(code)

	coupon, err := s.coupons.GetCoupon(ctx, normalized)
	if err != nil {
		if errors.Is(err, coupons.ErrCouponNotFound) {
			return 0, domain.ErrInvalidCoupon
		}
		return 0, err
	}
	if coupon.Expired(time.Now()) {
		return 0, domain.ErrInvalidCoupon
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return 0, domain.ErrNoCart
		}
		return 0, err
	}

	discounted := round2(cart.CartTotal * (1 - float64(coupon.DiscountPercent)/100))
	if err := s.repo.SetDiscount(ctx, userID, discounted); err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return 0, domain.ErrNoCart
		}
		s.log.Error("failed to set discount", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}

	s.events.CartChanged(ctx, userID)
	return discounted, nil
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
