// Package postgres provides the PostgreSQL implementation of the identity
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/identity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// Repository implements identity.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user record.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()

	query := `
		INSERT INTO users (id, email, name, avatar, blood_group, district, upazila, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Avatar,
		user.BloodGroup,
		user.District,
		user.Upazila,
		user.Role,
		user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// The service checks for duplicates first, but a concurrent
		// registration can still hit the unique index on email.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return identity.ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, avatar, blood_group, district, upazila, role, status, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Avatar,
		&user.BloodGroup,
		&user.District,
		&user.Upazila,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// GetUserRole fetches only the stored role. Used by the role gate: one
// point lookup per gated request.
func (r *Repository) GetUserRole(ctx context.Context, email string) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx, `SELECT role FROM users WHERE email = $1`, email).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", identity.ErrUserNotFound
		}
		return "", fmt.Errorf("get user role: %w", err)
	}
	return role, nil
}

// ListUsers retrieves a page of users with the total match count.
func (r *Repository) ListUsers(ctx context.Context, filter identity.UserFilter) ([]domain.User, int, error) {
	where := ""
	args := []interface{}{}
	argNum := 1

	if filter.Status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `
		SELECT id, email, name, avatar, blood_group, district, upazila, role, status, created_at, updated_at
		FROM users
	` + where + " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateProfile applies the self-service profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, email string, update identity.ProfileUpdate) (int64, int64, error) {
	query := `
		UPDATE users
		SET name = $2, avatar = $3, blood_group = $4, district = $5, upazila = $6, updated_at = now()
		WHERE email = $1
	`
	tag, err := r.db.Exec(ctx, query,
		email,
		update.Name,
		update.Avatar,
		update.BloodGroup,
		update.District,
		update.Upazila,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("update profile: %w", err)
	}

	return tag.RowsAffected(), tag.RowsAffected(), nil
}

// SetRoleStatus applies an admin role and/or status change.
func (r *Repository) SetRoleStatus(ctx context.Context, email string, role *domain.Role, status *domain.UserStatus) (int64, int64, error) {
	query := "UPDATE users SET updated_at = now()"
	args := []interface{}{email}
	argNum := 2

	if role != nil {
		query += fmt.Sprintf(", role = $%d", argNum)
		args = append(args, *role)
		argNum++
	}

	if status != nil {
		query += fmt.Sprintf(", status = $%d", argNum)
		args = append(args, *status)
	}

	query += " WHERE email = $1"

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("set role/status: %w", err)
	}

	return tag.RowsAffected(), tag.RowsAffected(), nil
}

// SearchDonors runs the public donor search over active donor accounts.
func (r *Repository) SearchDonors(ctx context.Context, filter identity.DonorFilter) ([]domain.User, error) {
	query := `
		SELECT id, email, name, avatar, blood_group, district, upazila, role, status, created_at, updated_at
		FROM users
		WHERE role = $1 AND status = $2
	`
	args := []interface{}{domain.RoleDonor, domain.UserStatusActive}
	argNum := 3

	if filter.BloodGroup != "" {
		query += fmt.Sprintf(" AND blood_group = $%d", argNum)
		args = append(args, filter.BloodGroup)
		argNum++
	}

	if filter.District != "" {
		query += fmt.Sprintf(" AND district = $%d", argNum)
		args = append(args, filter.District)
		argNum++
	}

	if filter.Upazila != "" {
		query += fmt.Sprintf(" AND upazila = $%d", argNum)
		args = append(args, filter.Upazila)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search donors: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.Avatar,
			&user.BloodGroup,
			&user.District,
			&user.Upazila,
			&user.Role,
			&user.Status,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
