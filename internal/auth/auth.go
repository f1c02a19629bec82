package auth

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_shop/internal/domain"
)

// ErrNoSession is returned when a token maps to no active session,
// including expired ones.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated actor behind a request.
type Session struct {
	Token     string
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

// Sessions resolves bearer tokens to active sessions. Auth state can
// change between a client's last check and a write, so write paths
// re-verify through this interface immediately before acting.
type Sessions interface {
	Active(ctx context.Context, token string) (*Session, error)
}
