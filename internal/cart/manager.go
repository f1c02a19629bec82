package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/fjod/go_shop/internal/notify"
	"golang.org/x/sync/singleflight"
)

// Manager hands out per-user stores, rehydrating each one from the mirror
// exactly once. Concurrent first requests for the same user collapse into
// a single mirror read.
type Manager struct {
	mirror   Mirror
	notifier notify.Notifier
	sfg      singleflight.Group

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(mirror Mirror, notifier notify.Notifier) *Manager {
	return &Manager{
		mirror:   mirror,
		notifier: notifier,
		stores:   make(map[string]*Store),
	}
}

// ForUser returns the user's cart store, creating and rehydrating it on
// first use. Unreadable stored state is discarded silently: the user gets
// an empty cart, never an error.
func (m *Manager) ForUser(ctx context.Context, userID string) *Store {
	m.mu.Lock()
	if s, ok := m.stores[userID]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	v, _, _ := m.sfg.Do(userID, func() (interface{}, error) {
		lines := m.rehydrate(ctx, userID)
		s := NewStore(userID, m.mirror, m.notifier, lines)

		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.stores[userID]; ok {
			return existing, nil
		}
		m.stores[userID] = s
		return s, nil
	})

	return v.(*Store)
}

func (m *Manager) rehydrate(ctx context.Context, userID string) []domain.CartLine {
	lines, err := m.mirror.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrMirrorMiss) {
			log.Printf("discarding stored cart for user %s: %v", userID, err)
		}
		return nil
	}
	return lines
}
