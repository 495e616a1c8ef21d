// Package postgres provides the PostgreSQL implementation of the reviews
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements reviews.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListReviews retrieves all reviews newest first.
func (r *Repository) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, avatar, rating, comment, created_at FROM reviews ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Review, 0)
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.Name, &rev.Avatar, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return items, nil
}
