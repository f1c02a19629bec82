package http

import (
	"net/http"
	"testing"
)

func TestCart_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assertStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", "", AddItemRequestDTO{ProductID: "p1"})
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestCart_StartsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "user-token", nil)
	assertStatus(t, rec, http.StatusOK)

	var resp CartResponseDTO
	decodeBody(t, rec, &resp)
	if len(resp.Items) != 0 || resp.ItemCount != 0 || resp.Total != 0 {
		t.Fatalf("expected empty cart, got %+v", resp)
	}
}

func TestAddItem_AddsAndIncrements(t *testing.T) {
	env := newTestEnv(t)
	env.store.products["p1"] = testProduct("p1", 9.99, 5)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p1"})
	assertStatus(t, rec, http.StatusCreated)

	var resp CartResponseDTO
	decodeBody(t, rec, &resp)
	if resp.ItemCount != 1 || resp.Total != 9.99 {
		t.Fatalf("after first add: count=%d total=%v", resp.ItemCount, resp.Total)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p1"})
	assertStatus(t, rec, http.StatusCreated)

	decodeBody(t, rec, &resp)
	if len(resp.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(resp.Items))
	}
	if resp.Items[0].Quantity != 2 || resp.ItemCount != 2 {
		t.Fatalf("after second add: quantity=%d count=%d", resp.Items[0].Quantity, resp.ItemCount)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "missing"})
	assertStatus(t, rec, http.StatusNotFound)
}

func TestAddItem_MissingProductID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{})
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateQuantity_SetsAbsoluteValue(t *testing.T) {
	env := newTestEnv(t)
	env.store.products["p1"] = testProduct("p1", 4.00, 10)
	env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p1"})

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/p1", "user-token", UpdateQuantityRequestDTO{Quantity: 3})
	assertStatus(t, rec, http.StatusOK)

	var resp CartResponseDTO
	decodeBody(t, rec, &resp)
	if resp.ItemCount != 3 || resp.Total != 12.00 {
		t.Fatalf("count=%d total=%v", resp.ItemCount, resp.Total)
	}
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	env := newTestEnv(t)
	env.store.products["p1"] = testProduct("p1", 4.00, 10)
	env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p1"})

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/p1", "user-token", UpdateQuantityRequestDTO{Quantity: 0})
	assertStatus(t, rec, http.StatusOK)

	var resp CartResponseDTO
	decodeBody(t, rec, &resp)
	if len(resp.Items) != 0 {
		t.Fatalf("expected line removed, got %+v", resp.Items)
	}
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	env.store.products["p1"] = testProduct("p1", 4.00, 10)
	env.store.products["p2"] = testProduct("p2", 6.00, 10)
	env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p1"})
	env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p2"})

	rec := env.do(t, http.MethodDelete, "/api/v1/cart/items/p1", "user-token", nil)
	assertStatus(t, rec, http.StatusOK)

	var resp CartResponseDTO
	decodeBody(t, rec, &resp)
	if len(resp.Items) != 1 || resp.Items[0].Product.ID != "p2" {
		t.Fatalf("expected only p2 left, got %+v", resp.Items)
	}
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	env.store.products["p1"] = testProduct("p1", 4.00, 10)
	env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p1"})

	rec := env.do(t, http.MethodDelete, "/api/v1/cart", "user-token", nil)
	assertStatus(t, rec, http.StatusOK)

	var resp CartResponseDTO
	decodeBody(t, rec, &resp)
	if len(resp.Items) != 0 || resp.Total != 0 {
		t.Fatalf("expected empty cart, got %+v", resp)
	}

	// the durable copy is dropped together with the in-memory cart
	if _, ok := env.mirror.lines["user-1"]; ok {
		t.Fatal("mirror entry should be gone after clear")
	}
}

func TestCart_IsPerUser(t *testing.T) {
	env := newTestEnv(t)
	env.store.products["p1"] = testProduct("p1", 4.00, 10)
	env.do(t, http.MethodPost, "/api/v1/cart/items", "user-token", AddItemRequestDTO{ProductID: "p1"})

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "admin-token", nil)
	assertStatus(t, rec, http.StatusOK)

	var resp CartResponseDTO
	decodeBody(t, rec, &resp)
	if len(resp.Items) != 0 {
		t.Fatalf("admin cart should be empty, got %+v", resp.Items)
	}
}
