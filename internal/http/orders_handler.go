package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Karlson54/TelegramBot/internal/catalog"
	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/order"
)

type OrdersHandler struct {
	orders  *order.Service
	catalog catalog.Store
}

func NewOrdersHandler(orders *order.Service, catalogStore catalog.Store) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		catalog: catalogStore,
	}
}

type AddOrderLineRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type TransitionRequestDTO struct {
	Status string `json:"status"`
}

type ShippingRequestDTO struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "GetOrder")
	defer span.End()

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("order_id", orderID.String()))

	o, err := h.orders.Get(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "ListOrders")
	defer span.End()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", userID))

	orders, err := h.orders.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// AddLine appends a product to a NEW order. The price is snapshotted from
// the catalog at this moment, like the cart does.
func (h *OrdersHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "AddOrderLine")
	defer span.End()

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req AddOrderLineRequestDTO
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
		attribute.String("order_id", orderID.String()),
		attribute.Int64("product_id", req.ProductID),
	)

	product, err := h.catalog.Lookup(ctx, req.ProductID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	o, err := h.orders.AddLine(ctx, orderID, domain.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
	})
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) Transition(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "TransitionOrder")
	defer span.End()

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req TransitionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	target, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("order_id", orderID.String()),
		attribute.String("target_status", target.String()),
	)

	o, err := h.orders.Transition(ctx, orderID, target)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "SetShipping")
	defer span.End()

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	span.SetAttributes(attribute.String("order_id", orderID.String()))

	o, err := h.orders.SetShipping(ctx, orderID, req.Address, req.Phone)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return uuid.Nil, false
	}
	return orderID, true
}
