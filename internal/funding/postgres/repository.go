// Package postgres provides the PostgreSQL implementation of the funding
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/funding"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements funding.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateFunding inserts a funding record.
func (r *Repository) CreateFunding(ctx context.Context, f *domain.Funding) error {
	f.ID = uuid.NewString()

	query := `
		INSERT INTO funding (id, name, email, amount, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		f.ID,
		f.Name,
		f.Email,
		f.Amount,
		f.Currency,
	).Scan(&f.CreatedAt)

	if err != nil {
		return fmt.Errorf("create funding: %w", err)
	}
	return nil
}

// ListFunding retrieves funding records newest first with the total count.
func (r *Repository) ListFunding(ctx context.Context, filters funding.Filters) ([]domain.Funding, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM funding").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count funding: %w", err)
	}

	query := `SELECT id, name, email, amount, currency, created_at FROM funding ORDER BY created_at DESC`
	args := []interface{}{}
	argNum := 1

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
		argNum++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list funding: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Funding, 0)
	for rows.Next() {
		var f domain.Funding
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Amount, &f.Currency, &f.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan funding: %w", err)
		}
		items = append(items, f)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate funding: %w", err)
	}

	return items, total, nil
}
