package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_shop/internal/auth"
	"github.com/fjod/go_shop/internal/cart"
	"github.com/fjod/go_shop/internal/checkout"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Store is the full repository surface the HTTP layer needs.
type Store interface {
	ProductReader
	OrderReader
	AdminStore
}

type RouterConfig struct {
	Store          Store
	Sessions       auth.Sessions
	Carts          *cart.Manager
	Checkout       *checkout.Service
	RequestTimeout time.Duration
}

// NewRouter assembles the storefront and admin API.
func NewRouter(cfg RouterConfig) *chi.Mux {
	productsHandler := NewProductsHandler(cfg.Store, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.Carts, cfg.Store, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.Carts, cfg.Checkout, cfg.RequestTimeout)
	ordersHandler := NewOrdersHandler(cfg.Store, cfg.RequestTimeout)
	adminHandler := NewAdminHandler(cfg.Store, cfg.Store, cfg.Checkout, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(auth.Middleware(cfg.Sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productsHandler.ListProducts)
			r.Get("/{product_id}", productsHandler.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Submit)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Post("/products", adminHandler.CreateProduct)
			r.Put("/products/{product_id}", adminHandler.UpdateProduct)
			r.Delete("/products/{product_id}", adminHandler.DeleteProduct)

			r.Get("/orders", adminHandler.ListOrders)
			r.Patch("/orders/{order_id}", adminHandler.UpdateOrderStatus)
			r.Delete("/orders/{order_id}", adminHandler.DeleteOrder)

			r.Get("/customers", adminHandler.ListCustomers)
		})
	})

	return r
}
