package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/payment"
)

type PaymentsHandler struct {
	payments *payment.Service
}

func NewPaymentsHandler(payments *payment.Service) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

type InitiatePaymentRequestDTO struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
}

// PaymentResponseDTO wraps the payment with the optional coupling conflict
// from completion. A conflict is not an error: the payment result stands.
type PaymentResponseDTO struct {
	Payment          *domain.Payment `json:"payment"`
	CouplingConflict string          `json:"coupling_conflict,omitempty"`
}

func (h *PaymentsHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "InitiatePayment")
	defer span.End()

	var req InitiatePaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
		return
	}

	span.SetAttributes(
		attribute.String("order_id", orderID.String()),
		attribute.Float64("amount", req.Amount),
	)

	p, err := h.payments.Initiate(ctx, orderID, req.Amount, req.Method)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *PaymentsHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "GetPayment")
	defer span.End()

	paymentID, ok := parsePaymentID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("payment_id", paymentID.String()))

	p, err := h.payments.Get(ctx, paymentID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *PaymentsHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "ListPayments")
	defer span.End()

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("order_id", orderID.String()))

	payments, err := h.payments.ListByOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payments)
}

func (h *PaymentsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "CompletePayment")
	defer span.End()

	paymentID, ok := parsePaymentID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("payment_id", paymentID.String()))

	p, conflict, err := h.payments.MarkCompleted(ctx, paymentID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	resp := PaymentResponseDTO{Payment: p}
	if conflict != nil {
		span.SetAttributes(attribute.Bool("coupling_conflict", true))
		resp.CouplingConflict = conflict.String()
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *PaymentsHandler) Fail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "FailPayment")
	defer span.End()

	paymentID, ok := parsePaymentID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("payment_id", paymentID.String()))

	p, err := h.payments.MarkFailed(ctx, paymentID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *PaymentsHandler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "RefundPayment")
	defer span.End()

	paymentID, ok := parsePaymentID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("payment_id", paymentID.String()))

	p, err := h.payments.Refund(ctx, paymentID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func parsePaymentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	paymentID, err := uuid.Parse(chi.URLParam(r, "payment_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payment_id", "payment_id must be a UUID")
		return uuid.Nil, false
	}
	return paymentID, true
}
