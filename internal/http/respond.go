package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses and
// machine-checkable codes. Anything unmapped is an internal error; the
// message is not echoed to avoid leaking store internals.
func handleServiceError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	var variantErr *domain.InvalidVariantError

	switch {
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   stockErr.Error(),
			Code:    "insufficient_stock",
			Details: fmt.Sprintf("available: %d", stockErr.Available),
		})
	case errors.As(err, &variantErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   variantErr.Error(),
			Code:    "invalid_variant",
			Details: "allowed: " + strings.Join(variantErr.Allowed, ", "),
		})
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrNoCart):
		respondError(w, http.StatusNotFound, "no_cart_found", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrInvalidCoupon):
		respondError(w, http.StatusBadRequest, "invalid_coupon", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, domain.ErrIncompleteAddress):
		respondError(w, http.StatusBadRequest, "incomplete_address", err.Error())
	case errors.Is(err, domain.ErrUnsupportedPayment):
		respondError(w, http.StatusBadRequest, "unsupported_payment_method", err.Error())
	case errors.Is(err, domain.ErrInvalidCount):
		respondError(w, http.StatusBadRequest, "invalid_count", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
