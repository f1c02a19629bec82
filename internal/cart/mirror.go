package cart

import (
	"context"
	"errors"

	"github.com/fjod/go_shop/internal/domain"
)

// ErrMirrorMiss is returned by Load when no cart is stored for the user.
var ErrMirrorMiss = errors.New("no stored cart")

// Mirror is the durable slot a cart is persisted to. The in-memory store
// stays authoritative: mirror failures are logged and absorbed, never
// surfaced to cart callers.
type Mirror interface {
	Load(ctx context.Context, userID string) ([]domain.CartLine, error)
	Save(ctx context.Context, userID string, lines []domain.CartLine) error
	Clear(ctx context.Context, userID string) error
}
