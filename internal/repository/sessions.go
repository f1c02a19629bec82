package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_shop/internal/auth"
)

// Active implements auth.Sessions against the sessions table. Expired
// sessions behave exactly like missing ones.
func (r *Repository) Active(ctx context.Context, token string) (*auth.Session, error) {
	query := `SELECT s.token, s.user_id, u.email, u.role, s.expires_at
	          FROM sessions s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.token = $1`

	var session auth.Session
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.Email,
		&session.Role,
		&session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, auth.ErrNoSession
	}

	return &session, nil
}
