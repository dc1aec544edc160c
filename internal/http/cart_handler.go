package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Karlson54/TelegramBot/internal/cart"
)

type CartHandler struct {
	carts *cart.Service
}

func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "CartAddItem")
	defer span.End()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("product_id", req.ProductID),
		attribute.Int("quantity", int(req.Quantity)),
	)

	updated, err := h.carts.Add(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, updated)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "GetCart")
	defer span.End()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", userID))

	c, err := h.carts.Get(ctx, userID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "CartRemoveItem")
	defer span.End()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.carts.Remove(ctx, userID, productID); err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	c, err := h.carts.Get(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "ClearCart")
	defer span.End()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.carts.Clear(ctx, userID); err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a positive integer")
		return 0, false
	}
	return userID, true
}
