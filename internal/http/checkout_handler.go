package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_shop/internal/auth"
	"github.com/fjod/go_shop/internal/cart"
	"github.com/fjod/go_shop/internal/checkout"
)

type CheckoutHandler struct {
	carts   *cart.Manager
	service *checkout.Service
	timeout time.Duration
}

func NewCheckoutHandler(carts *cart.Manager, service *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:   carts,
		service: service,
		timeout: timeout,
	}
}

type CheckoutResponseDTO struct {
	OrderID string `json:"order_id"`
}

// POST /api/v1/checkout
//
// Submits the current cart. The checkout service re-verifies the session
// itself; the handler's check only short-circuits the obvious case. On
// success the cart is cleared and the new order ID returned.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session := auth.SessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	store := h.carts.ForUser(ctx, session.UserID)
	lines := store.Items()
	if len(lines) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty, nothing to checkout")
		return
	}

	orderID, err := h.service.Submit(ctx, auth.TokenFromContext(r.Context()), lines, store.Total())
	if err != nil {
		respondCheckoutError(w, err)
		return
	}

	store.Clear()
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{OrderID: orderID})
}
