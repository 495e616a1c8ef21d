// Package postgres provides the PostgreSQL implementation of the donations
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/donations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements donations.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const requestColumns = `
	id, requester_name, requester_email, recipient_name, recipient_district,
	recipient_upazila, hospital_name, full_address, blood_group,
	donation_date, donation_time, request_message, donation_status,
	donor_name, donor_email, created_at, updated_at
`

// CreateRequest inserts a new donation request.
func (r *Repository) CreateRequest(ctx context.Context, req *domain.DonationRequest) error {
	req.ID = uuid.NewString()

	query := `
		INSERT INTO donation_requests (
			id, requester_name, requester_email, recipient_name, recipient_district,
			recipient_upazila, hospital_name, full_address, blood_group,
			donation_date, donation_time, request_message, donation_status,
			donor_name, donor_email
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		req.ID,
		req.RequesterName,
		req.RequesterEmail,
		req.RecipientName,
		req.RecipientDistrict,
		req.RecipientUpazila,
		req.HospitalName,
		req.FullAddress,
		req.BloodGroup,
		req.DonationDate,
		req.DonationTime,
		req.RequestMessage,
		req.DonationStatus,
		req.DonorName,
		req.DonorEmail,
	).Scan(&req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create donation request: %w", err)
	}
	return nil
}

// GetRequest retrieves a donation request by id.
func (r *Repository) GetRequest(ctx context.Context, id string) (*domain.DonationRequest, error) {
	query := "SELECT " + requestColumns + " FROM donation_requests WHERE id = $1"

	row := r.db.QueryRow(ctx, query, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, donations.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get donation request: %w", err)
	}

	return req, nil
}

// ListRequests retrieves donation requests with optional filters and the
// total match count.
func (r *Repository) ListRequests(ctx context.Context, filters donations.Filters) ([]domain.DonationRequest, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if filters.Status != nil {
		where += fmt.Sprintf(" AND donation_status = $%d", argNum)
		args = append(args, *filters.Status)
		argNum++
	}

	if filters.RequesterEmail != "" {
		where += fmt.Sprintf(" AND requester_email = $%d", argNum)
		args = append(args, filters.RequesterEmail)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM donation_requests"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donation requests: %w", err)
	}

	query := "SELECT " + requestColumns + " FROM donation_requests" + where + " ORDER BY created_at DESC"

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
		return nil, 0, fmt.Errorf("list donation requests: %w", err)
	}
	defer rows.Close()

	items := make([]domain.DonationRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan donation request: %w", err)
		}
		items = append(items, *req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate donation requests: %w", err)
	}

	return items, total, nil
}

// UpdateRequest writes all mutable fields of a request.
func (r *Repository) UpdateRequest(ctx context.Context, req *domain.DonationRequest) (int64, int64, error) {
	query := `
		UPDATE donation_requests
		SET requester_name = $2, recipient_name = $3, recipient_district = $4,
			recipient_upazila = $5, hospital_name = $6, full_address = $7,
			blood_group = $8, donation_date = $9, donation_time = $10,
			request_message = $11, donation_status = $12, donor_name = $13,
			donor_email = $14, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		req.ID,
		req.RequesterName,
		req.RecipientName,
		req.RecipientDistrict,
		req.RecipientUpazila,
		req.HospitalName,
		req.FullAddress,
		req.BloodGroup,
		req.DonationDate,
		req.DonationTime,
		req.RequestMessage,
		req.DonationStatus,
		req.DonorName,
		req.DonorEmail,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("update donation request: %w", err)
	}

	return tag.RowsAffected(), tag.RowsAffected(), nil
}

// DeleteRequest removes a request by id.
func (r *Repository) DeleteRequest(ctx context.Context, id string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM donation_requests WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete donation request: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRequest(row pgx.Row) (*domain.DonationRequest, error) {
	var req domain.DonationRequest
	err := row.Scan(
		&req.ID,
		&req.RequesterName,
		&req.RequesterEmail,
		&req.RecipientName,
		&req.RecipientDistrict,
		&req.RecipientUpazila,
		&req.HospitalName,
		&req.FullAddress,
		&req.BloodGroup,
		&req.DonationDate,
		&req.DonationTime,
		&req.RequestMessage,
		&req.DonationStatus,
		&req.DonorName,
		&req.DonorEmail,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
