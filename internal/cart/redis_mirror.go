package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_shop/internal/domain"
	"github.com/redis/go-redis/v9"
)

// mirrorTTL matches the retention of abandoned carts. A save refreshes it.
const mirrorTTL = 90 * 24 * time.Hour

// RedisMirror persists carts as JSON under a fixed per-user key.
type RedisMirror struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{
		client: client,
		ttl:    mirrorTTL,
	}
}

func (r *RedisMirror) Load(ctx context.Context, userID string) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, mirrorKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMirrorMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return lines, nil
}

func (r *RedisMirror) Save(ctx context.Context, userID string, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, mirrorKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisMirror) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, mirrorKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func mirrorKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
