package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_shop/internal/auth"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/google/uuid"
)

// Store is the data-access collaborator. Every call is independently
// atomic; there is no transaction spanning calls, which is why Submit
// documents its partial-failure behavior instead of compensating.
type Store interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateOrderItems(ctx context.Context, items []domain.OrderItem) error
	UpdateProductStock(ctx context.Context, productID string, stock int) error
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	DeleteOrderItems(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
}

type Service struct {
	store    Store
	sessions auth.Sessions
}

func NewService(store Store, sessions auth.Sessions) *Service {
	return &Service{store: store, sessions: sessions}
}

// Submit turns a cart snapshot into a durable order. The sequence is
// fixed: verify session, insert order, insert items, decrement stock.
//
// Steps are not atomic across calls. An items-insert failure leaves the
// order row in place and surfaces its ID for reconciliation. Stock
// decrement failures are logged per line and never fail an order that
// already landed; a placed order is never blocked on inventory
// bookkeeping.
//
// There is no dedup key: submitting the same cart twice creates two
// orders. Callers are responsible for not double-submitting.
func (s *Service) Submit(ctx context.Context, token string, lines []domain.CartLine, total float64) (orderID string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("checkout panic: %v", r)
			orderID = ""
			err = &Error{Code: CodeUnknown, Message: fmt.Sprintf("unexpected error during checkout: %v", r)}
		}
	}()

	session, sessErr := s.sessions.Active(ctx, token)
	if sessErr != nil {
		log.Printf("create order failed: no active session: %v", sessErr)
		return "", &Error{Code: CodeUnauthenticated, Message: "you must be logged in to place an order"}
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    session.UserID,
		Total:     total,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	if createErr := s.store.CreateOrder(ctx, order); createErr != nil {
		log.Printf("order creation error: %v", createErr)
		return "", &Error{Code: CodeCreateFailed, Message: fmt.Sprintf("failed to create order: %v", createErr)}
	}

	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		// unit price frozen from the cart snapshot at submission time
		items[i] = domain.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
		}
	}
	if itemsErr := s.store.CreateOrderItems(ctx, items); itemsErr != nil {
		log.Printf("order items creation error for order %s: %v", order.ID, itemsErr)
		return "", &Error{
			Code:    CodeItemsCreateFailed,
			OrderID: order.ID,
			Message: fmt.Sprintf("failed to create order items: %v", itemsErr),
		}
	}

	// Best-effort stock bookkeeping, one line at a time in cart order so a
	// failure on one line is attributable in the log. The new stock is
	// computed from the snapshot and clamped at zero; concurrent purchases
	// of the same product can lose updates here, which is an accepted
	// limitation of the delegated store.
	for _, line := range lines {
		stock := line.Product.Stock - line.Quantity
		if stock < 0 {
			stock = 0
		}
		if stockErr := s.store.UpdateProductStock(ctx, line.Product.ID, stock); stockErr != nil {
			log.Printf("error updating stock for product %s: %v", line.Product.ID, stockErr)
		}
	}

	return order.ID, nil
}

// UpdateStatus patches an order's lifecycle status after re-verifying the
// session.
func (s *Service) UpdateStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error {
	if _, err := s.sessions.Active(ctx, token); err != nil {
		return &Error{Code: CodeUnauthenticated, Message: "you must be logged in to update an order"}
	}

	if !status.Valid() {
		return &Error{Code: CodeUpdateFailed, Message: fmt.Sprintf("invalid order status %q", status)}
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		log.Printf("order update error: %v", err)
		return &Error{Code: CodeUpdateFailed, OrderID: orderID, Message: fmt.Sprintf("failed to update order: %v", err)}
	}
	return nil
}

// Delete removes an order and its items. Items go first so a failure
// midway never leaves orphaned items behind an already-deleted order.
func (s *Service) Delete(ctx context.Context, token, orderID string) error {
	if _, err := s.sessions.Active(ctx, token); err != nil {
		return &Error{Code: CodeUnauthenticated, Message: "you must be logged in to delete an order"}
	}

	if err := s.store.DeleteOrderItems(ctx, orderID); err != nil {
		log.Printf("order items deletion error: %v", err)
		return &Error{Code: CodeDeleteFailed, OrderID: orderID, Message: fmt.Sprintf("failed to delete order items: %v", err)}
	}

	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		log.Printf("order deletion error: %v", err)
		return &Error{Code: CodeDeleteFailed, OrderID: orderID, Message: fmt.Sprintf("failed to delete order: %v", err)}
	}
	return nil
}
