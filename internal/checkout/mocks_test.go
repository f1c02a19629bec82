package checkout

import (
	"context"
	"fmt"

	"github.com/fjod/go_shop/internal/auth"
	"github.com/fjod/go_shop/internal/domain"
)

// MockStore implements Store for testing. It records every call in Ops
// so tests can assert the write sequence, and fails or panics per method
// on demand.
type MockStore struct {
	Ops []string

	CreatedOrder *domain.Order
	CreatedItems []domain.OrderItem
	StockUpdates map[string]int

	CreateOrderErr   error
	CreateItemsErr   error
	CreateItemsPanic bool
	UpdateStockErr   error
	UpdateStatusErr  error
	DeleteItemsErr   error
	DeleteOrderErr   error
}

func (m *MockStore) CreateOrder(_ context.Context, order *domain.Order) error {
	m.Ops = append(m.Ops, "create_order")
	if m.CreateOrderErr != nil {
		return m.CreateOrderErr
	}
	m.CreatedOrder = order
	return nil
}

func (m *MockStore) CreateOrderItems(_ context.Context, items []domain.OrderItem) error {
	m.Ops = append(m.Ops, "create_order_items")
	if m.CreateItemsPanic {
		panic("items table went away")
	}
	if m.CreateItemsErr != nil {
		return m.CreateItemsErr
	}
	m.CreatedItems = items
	return nil
}

func (m *MockStore) UpdateProductStock(_ context.Context, productID string, stock int) error {
	m.Ops = append(m.Ops, fmt.Sprintf("update_stock:%s", productID))
	if m.UpdateStockErr != nil {
		return m.UpdateStockErr
	}
	if m.StockUpdates == nil {
		m.StockUpdates = make(map[string]int)
	}
	m.StockUpdates[productID] = stock
	return nil
}

func (m *MockStore) UpdateOrderStatus(_ context.Context, orderID string, status domain.OrderStatus) error {
	m.Ops = append(m.Ops, fmt.Sprintf("update_status:%s:%s", orderID, status))
	return m.UpdateStatusErr
}

func (m *MockStore) DeleteOrderItems(_ context.Context, orderID string) error {
	m.Ops = append(m.Ops, fmt.Sprintf("delete_items:%s", orderID))
	return m.DeleteItemsErr
}

func (m *MockStore) DeleteOrder(_ context.Context, orderID string) error {
	m.Ops = append(m.Ops, fmt.Sprintf("delete_order:%s", orderID))
	return m.DeleteOrderErr
}

// MockSessions implements auth.Sessions for testing.
type MockSessions struct {
	Session *auth.Session
	Err     error
	Calls   int
}

func (m *MockSessions) Active(context.Context, string) (*auth.Session, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}
