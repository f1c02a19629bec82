package repository

import (
	"context"
	"fmt"

	"github.com/fjod/go_shop/internal/domain"
)

// ListCustomers returns all users with their order aggregates for the
// admin customers view.
func (r *Repository) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	query := `SELECT u.id, u.email, u.role, COUNT(o.id), COALESCE(SUM(o.total), 0)
	          FROM users u
	          LEFT JOIN orders o ON o.user_id = u.id
	          GROUP BY u.id, u.email, u.role
	          ORDER BY u.email`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c := &domain.Customer{}
		if err := rows.Scan(
			&c.ID,
			&c.Email,
			&c.Role,
			&c.OrderCount,
			&c.TotalSpent,
		); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return customers, nil
}
