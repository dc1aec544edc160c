package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Karlson54/TelegramBot/internal/catalog"
)

type CatalogHandler struct {
	store catalog.Store
}

func NewCatalogHandler(store catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "ListProducts")
	defer span.End()

	availableOnly := r.URL.Query().Get("available") == "true"
	span.SetAttributes(attribute.Bool("available_only", availableOnly))

	products, err := h.store.List(ctx, availableOnly)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("storefront").Start(r.Context(), "GetProduct")
	defer span.End()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}
	span.SetAttributes(attribute.Int64("product_id", productID))

	product, err := h.store.Lookup(ctx, productID)
	if err != nil {
		span.RecordError(err)
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}
