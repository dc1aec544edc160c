package http

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Karlson54/TelegramBot/internal/checkout"
)

type CheckoutHandler struct {
	checkout *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "Checkout")
	defer span.End()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", userID))

	o, err := h.checkout.Checkout(ctx, userID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	span.SetAttributes(attribute.String("order_id", o.ID.String()))
	respondJSON(w, http.StatusCreated, o)
}
