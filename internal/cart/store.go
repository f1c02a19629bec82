package cart

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/notify"
)

const mirrorTimeout = time.Second

// Store holds one user's shopping cart. In-memory state is authoritative
// and immediately consistent for reads; the mirror is a best-effort copy.
//
// Lines keep insertion order so downstream per-line operations (checkout
// stock updates) run in the order products were added.
type Store struct {
	userID   string
	mirror   Mirror
	notifier notify.Notifier

	mu    sync.Mutex
	lines []domain.CartLine
}

// NewStore creates a store seeded with rehydrated lines (nil for a fresh
// cart).
func NewStore(userID string, mirror Mirror, notifier notify.Notifier, lines []domain.CartLine) *Store {
	return &Store{
		userID:   userID,
		mirror:   mirror,
		notifier: notifier,
		lines:    lines,
	}
}

// AddItem inserts a new line with quantity 1, or increments the existing
// line for the same product. The notification describes the state after
// the mutation; the quantity is read inside the critical section so rapid
// repeated adds never report a stale count.
func (s *Store) AddItem(p domain.Product) {
	s.mu.Lock()
	var n notify.Notification
	if line := s.findLocked(p.ID); line != nil {
		line.Quantity++
		n = notify.Notification{
			UserID:      s.userID,
			Title:       "Cart updated",
			Description: fmt.Sprintf("%s quantity increased to %d", p.Name, line.Quantity),
			Kind:        notify.KindSuccess,
		}
	} else {
		s.lines = append(s.lines, domain.CartLine{Product: p, Quantity: 1})
		n = notify.Notification{
			UserID:      s.userID,
			Title:       "Added to cart",
			Description: fmt.Sprintf("%s has been added to your cart", p.Name),
			Kind:        notify.KindSuccess,
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snapshot)
	s.notifier.Notify(n)
}

// RemoveItem deletes the line for productID. Absent products are a no-op,
// not an error.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	idx := -1
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	name := s.lines[idx].Product.Name
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snapshot)
	s.notifier.Notify(notify.Notification{
		UserID:      s.userID,
		Title:       "Removed from cart",
		Description: fmt.Sprintf("%s has been removed from your cart", name),
		Kind:        notify.KindDefault,
	})
}

// UpdateQuantity sets the line's quantity to exactly quantity. A value of
// zero or below behaves as RemoveItem. Unknown products are a no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	line := s.findLocked(productID)
	if line == nil {
		s.mu.Unlock()
		return
	}
	line.Quantity = quantity
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snapshot)
}

// Clear empties the cart and removes the persisted mirror.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.persist(nil)
	s.notifier.Notify(notify.Notification{
		UserID:      s.userID,
		Title:       "Cart cleared",
		Description: "All items have been removed from your cart",
		Kind:        notify.KindDefault,
	})
}

// Items returns a snapshot of the current lines in insertion order.
func (s *Store) Items() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ItemCount is the sum of all line quantities, computed on every call.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.lines {
		count += s.lines[i].Quantity
	}
	return count
}

// Total is the sum of price times quantity over all lines, computed on
// every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for i := range s.lines {
		total += s.lines[i].Subtotal()
	}
	return total
}

func (s *Store) findLocked(productID string) *domain.CartLine {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			return &s.lines[i]
		}
	}
	return nil
}

func (s *Store) snapshotLocked() []domain.CartLine {
	snapshot := make([]domain.CartLine, len(s.lines))
	copy(snapshot, s.lines)
	return snapshot
}

// persist mirrors the given snapshot. An empty cart removes the slot so a
// returning session rehydrates to a fresh cart. Errors are logged only;
// mutations never fail on persistence.
func (s *Store) persist(snapshot []domain.CartLine) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	var err error
	if len(snapshot) == 0 {
		err = s.mirror.Clear(ctx, s.userID)
	} else {
		err = s.mirror.Save(ctx, s.userID, snapshot)
	}
	if err != nil {
		log.Printf("cart mirror error for user %s: %v", s.userID, err)
	}
}
