// Package postgres provides the PostgreSQL implementation of the blogs
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloodhope/bloodhope-api/internal/blogs"
	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements blogs.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const blogColumns = `id, title, thumbnail, content, status, author_email, created_at, updated_at`

// CreateBlog inserts a new blog post.
func (r *Repository) CreateBlog(ctx context.Context, blog *domain.Blog) error {
	blog.ID = uuid.NewString()

	query := `
		INSERT INTO blogs (id, title, thumbnail, content, status, author_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		blog.ID,
		blog.Title,
		blog.Thumbnail,
		blog.Content,
		blog.Status,
		blog.AuthorEmail,
	).Scan(&blog.CreatedAt, &blog.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

// GetBlog retrieves a blog post by id.
func (r *Repository) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	query := "SELECT " + blogColumns + " FROM blogs WHERE id = $1"

	row := r.db.QueryRow(ctx, query, id)
	blog, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blogs.ErrBlogNotFound
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}

	return blog, nil
}

// ListBlogs retrieves blog posts with optional filters and the total match
// count.
func (r *Repository) ListBlogs(ctx context.Context, filters blogs.Filters) ([]domain.Blog, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if filters.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filters.Status)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM blogs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	query := "SELECT " + blogColumns + " FROM blogs" + where + " ORDER BY created_at DESC"

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
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Blog, 0)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		items = append(items, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate blogs: %w", err)
	}

	return items, total, nil
}

// UpdateBlogStatus moves a blog post to the given status.
func (r *Repository) UpdateBlogStatus(ctx context.Context, id string, status domain.BlogStatus) (int64, int64, error) {
	query := `UPDATE blogs SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return 0, 0, fmt.Errorf("update blog status: %w", err)
	}

	return tag.RowsAffected(), tag.RowsAffected(), nil
}

// DeleteBlog removes a blog post by id.
func (r *Repository) DeleteBlog(ctx context.Context, id string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete blog: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var blog domain.Blog
	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Thumbnail,
		&blog.Content,
		&blog.Status,
		&blog.AuthorEmail,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}
