package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_shop/internal/auth"
	"github.com/fjod/go_shop/internal/cart"
	"github.com/fjod/go_shop/internal/checkout"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/notify"
	"github.com/fjod/go_shop/internal/repository"
	"github.com/go-chi/chi/v5"
)

// fakeStore backs every data interface the router needs so one instance
// can stand in for the whole repository.
type fakeStore struct {
	mu        sync.Mutex
	products  map[string]*domain.Product
	orders    map[string]*domain.Order
	customers []*domain.Customer

	createOrderErr error
	createItemsErr error

	createdItems []domain.OrderItem
	stockWrites  map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:    make(map[string]*domain.Product),
		orders:      make(map[string]*domain.Order),
		stockWrites: make(map[string]int),
	}
}

func (f *fakeStore) ListProducts(_ context.Context, category string) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Product
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = "generated-id"
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) UpdateProductStock(_ context.Context, productID string, stock int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stockWrites[productID] = stock
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeStore) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOrders(_ context.Context) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createOrderErr != nil {
		return f.createOrderErr
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeStore) CreateOrderItems(_ context.Context, items []domain.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createItemsErr != nil {
		return f.createItemsErr
	}
	f.createdItems = append(f.createdItems, items...)
	return nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, orderID string, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeStore) DeleteOrderItems(_ context.Context, orderID string) error {
	return nil
}

func (f *fakeStore) DeleteOrder(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, orderID)
	return nil
}

func (f *fakeStore) ListCustomers(_ context.Context) ([]*domain.Customer, error) {
	return f.customers, nil
}

// fakeSessions resolves tokens from a fixed map.
type fakeSessions struct {
	sessions map[string]*auth.Session
}

func (f *fakeSessions) Active(_ context.Context, token string) (*auth.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, auth.ErrNoSession
}

// memMirror is an in-process cart.Mirror so router tests never touch
// Redis.
type memMirror struct {
	mu    sync.Mutex
	lines map[string][]domain.CartLine
}

func newMemMirror() *memMirror {
	return &memMirror{lines: make(map[string][]domain.CartLine)}
}

func (m *memMirror) Load(_ context.Context, userID string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines, ok := m.lines[userID]
	if !ok {
		return nil, cart.ErrMirrorMiss
	}
	return lines, nil
}

func (m *memMirror) Save(_ context.Context, userID string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[userID] = lines
	return nil
}

func (m *memMirror) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, userID)
	return nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(notify.Notification) {}

type testEnv struct {
	router   *chi.Mux
	store    *fakeStore
	mirror   *memMirror
	sessions *fakeSessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	mirror := newMemMirror()
	sessions := &fakeSessions{sessions: map[string]*auth.Session{
		"user-token": {
			Token:     "user-token",
			UserID:    "user-1",
			Email:     "user@example.com",
			Role:      domain.RoleUser,
			ExpiresAt: time.Now().Add(time.Hour),
		},
		"admin-token": {
			Token:     "admin-token",
			UserID:    "admin-1",
			Email:     "admin@example.com",
			Role:      domain.RoleAdmin,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}

	carts := cart.NewManager(mirror, nopNotifier{})
	service := checkout.NewService(store, sessions)

	router := NewRouter(RouterConfig{
		Store:          store,
		Sessions:       sessions,
		Carts:          carts,
		Checkout:       service,
		RequestTimeout: 2 * time.Second,
	})

	return &testEnv{router: router, store: store, mirror: mirror, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, rec.Code, rec.Body.String())
	}
}

func testProduct(id string, price float64, stock int) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    price,
		Category: "gadgets",
		Stock:    stock,
	}
}
