// Package postgres provides the PostgreSQL implementation of the stats
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/bloodhope/bloodhope-api/internal/stats"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements stats.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Totals runs the three aggregate queries in one round trip.
func (r *Repository) Totals(ctx context.Context) (stats.Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM donation_requests),
			(SELECT COALESCE(SUM(amount), 0) FROM funding)
	`

	var t stats.Totals
	if err := r.db.QueryRow(ctx, query).Scan(&t.TotalUsers, &t.TotalRequests, &t.TotalFunding); err != nil {
		return stats.Totals{}, fmt.Errorf("aggregate totals: %w", err)
	}

	return t, nil
}
