package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Karlson54/TelegramBot/internal/cart"
	"github.com/Karlson54/TelegramBot/internal/catalog"
	"github.com/Karlson54/TelegramBot/internal/order"
	"github.com/Karlson54/TelegramBot/internal/payment"
	"github.com/Karlson54/TelegramBot/internal/session"
	"github.com/Karlson54/TelegramBot/internal/store"
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
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleServiceError maps the service-layer sentinel errors onto HTTP
// statuses and stable machine-readable codes.
func handleServiceError(w http.ResponseWriter, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		httpStatus = http.StatusNotFound
		code = "product_not_found"
	case errors.Is(err, cart.ErrProductUnavailable):
		httpStatus = http.StatusConflict
		code = "product_unavailable"
	case errors.Is(err, cart.ErrInvalidQuantity):
		httpStatus = http.StatusBadRequest
		code = "invalid_quantity"
	case errors.Is(err, cart.ErrCartNotFound):
		httpStatus = http.StatusNotFound
		code = "cart_not_found"
	case errors.Is(err, order.ErrOrderNotFound):
		httpStatus = http.StatusNotFound
		code = "order_not_found"
	case errors.Is(err, order.ErrEmptyOrder):
		httpStatus = http.StatusBadRequest
		code = "empty_order"
	case errors.Is(err, order.ErrOrderLocked):
		httpStatus = http.StatusConflict
		code = "order_locked"
	case errors.Is(err, order.ErrInvalidTransition):
		httpStatus = http.StatusConflict
		code = "invalid_transition"
	case errors.Is(err, order.ErrOrderNotCancellable):
		httpStatus = http.StatusConflict
		code = "order_not_cancellable"
	case errors.Is(err, order.ErrInvalidPhone):
		httpStatus = http.StatusBadRequest
		code = "invalid_phone"
	case errors.Is(err, payment.ErrPaymentNotFound):
		httpStatus = http.StatusNotFound
		code = "payment_not_found"
	case errors.Is(err, payment.ErrInvalidPaymentTransition):
		httpStatus = http.StatusConflict
		code = "invalid_payment_transition"
	case errors.Is(err, payment.ErrOrderNotPaid):
		httpStatus = http.StatusConflict
		code = "order_not_paid"
	case errors.Is(err, session.ErrSessionNotFound):
		httpStatus = http.StatusNotFound
		code = "session_not_found"
	case errors.Is(err, session.ErrStepNotAllowed):
		httpStatus = http.StatusConflict
		code = "step_not_allowed"
	case errors.Is(err, store.ErrConcurrentModification):
		httpStatus = http.StatusConflict
		code = "concurrent_modification"
	case errors.Is(err, store.ErrStoreUnavailable):
		httpStatus = http.StatusServiceUnavailable
		code = "store_unavailable"
	default:
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
	}

	respondError(w, httpStatus, code, err.Error())
}
