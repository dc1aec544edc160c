package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Payments *PaymentsHandler
	Sessions *SessionHandler
}

// NewRouter builds the full route tree with the standard middleware stack.
func NewRouter(h Handlers, logger *zap.Logger, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Catalog.ListProducts)
			r.Get("/{product_id}", h.Catalog.GetProduct)
		})

		r.Route("/users/{user_id}", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Post("/items", h.Cart.AddItem)
				r.Delete("/items/{product_id}", h.Cart.RemoveItem)
				r.Delete("/", h.Cart.ClearCart)
			})

			r.Post("/checkout", h.Checkout.Checkout)
			r.Get("/orders", h.Orders.ListOrders)

			r.Route("/session", func(r chi.Router) {
				r.Post("/", h.Sessions.Start)
				r.Get("/", h.Sessions.Get)
				r.Post("/advance", h.Sessions.Advance)
				r.Delete("/", h.Sessions.Reset)
			})
		})

		r.Route("/orders/{order_id}", func(r chi.Router) {
			r.Get("/", h.Orders.GetOrder)
			r.Post("/items", h.Orders.AddLine)
			r.Post("/status", h.Orders.Transition)
			r.Put("/shipping", h.Orders.SetShipping)
			r.Get("/payments", h.Payments.ListByOrder)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.Payments.Initiate)
			r.Get("/{payment_id}", h.Payments.GetPayment)
			r.Post("/{payment_id}/complete", h.Payments.Complete)
			r.Post("/{payment_id}/fail", h.Payments.Fail)
			r.Post("/{payment_id}/refund", h.Payments.Refund)
		})
	})

	return r
}
