// Package postgres provides the PostgreSQL implementation of the geo
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements geo.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListDistricts retrieves all districts ordered by name.
func (r *Repository) ListDistricts(ctx context.Context) ([]domain.District, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, bn_name, division_id FROM districts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	items := make([]domain.District, 0)
	for rows.Next() {
		var d domain.District
		if err := rows.Scan(&d.ID, &d.Name, &d.BnName, &d.Division); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		items = append(items, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate districts: %w", err)
	}

	return items, nil
}

// ListUpazilas retrieves all upazilas ordered by name.
func (r *Repository) ListUpazilas(ctx context.Context) ([]domain.Upazila, error) {
	rows, err := r.db.Query(ctx, `SELECT id, district_id, name, bn_name FROM upazilas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list upazilas: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Upazila, 0)
	for rows.Next() {
		var u domain.Upazila
		if err := rows.Scan(&u.ID, &u.DistrictID, &u.Name, &u.BnName); err != nil {
			return nil, fmt.Errorf("scan upazila: %w", err)
		}
		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upazilas: %w", err)
	}

	return items, nil
}
