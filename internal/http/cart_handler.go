package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
	"github.com/Sunny955/Ecommerce-backend/internal/service"
)

// CartService is the slice of the cart engine the HTTP layer consumes.
type CartService interface {
	ReplaceCart(ctx context.Context, userID string, reqs []service.LineRequest) (*domain.Cart, error)
	MergeLines(ctx context.Context, userID string, reqs []service.LineRequest) (*domain.Cart, error)
	GetCart(ctx context.Context, userID string) (*service.CartView, error)
	EmptyCart(ctx context.Context, userID string) error
	ApplyCoupon(ctx context.Context, userID, code string) (float64, error)
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type LineItemDTO struct {
	ProductID string `json:"productId"`
	Count     int    `json:"count"`
	Color     string `json:"color,omitempty"`
}

type ApplyCouponDTO struct {
	CouponCode string `json:"couponCode"`
}

// decodeLines parses and validates the submitted line list shared by the
// submit and merge endpoints.
func decodeLines(w http.ResponseWriter, r *http.Request) ([]service.LineRequest, bool) {
	var dtos []LineItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	if len(dtos) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "at least one line item is required")
		return nil, false
	}

	reqs := make([]service.LineRequest, 0, len(dtos))
	for _, dto := range dtos {
		if dto.ProductID == "" {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
			return nil, false
		}
		if dto.Count < 1 {
			respondError(w, http.StatusBadRequest, "invalid_count", "count must be at least 1")
			return nil, false
		}
		reqs = append(reqs, service.LineRequest{
			ProductID: dto.ProductID,
			Count:     dto.Count,
			Color:     dto.Color,
		})
	}
	return reqs, true
}

// SubmitCart replaces the owner's cart wholesale.
func (h *CartHandler) SubmitCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	reqs, ok := decodeLines(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.ReplaceCart(ctx, userID, reqs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// MergeCart adds more lines into an existing cart.
func (h *CartHandler) MergeCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	reqs, ok := decodeLines(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.MergeLines(ctx, userID, reqs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	view, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) EmptyCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	if err := h.carts.EmptyCart(ctx, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cart emptied"})
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	var dto ApplyCouponDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if dto.CouponCode == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "couponCode is required")
		return
	}

	total, err := h.carts.ApplyCoupon(ctx, userID, dto.CouponCode)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{"totalAfterDiscount": total})
}
