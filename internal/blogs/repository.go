package blogs

import (
	"context"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// Filters holds filter options for listing blogs.
type Filters struct {
	Status *domain.BlogStatus
	Limit  int
	Offset int
}

// Repository defines the interface for blog storage.
type Repository interface {
	CreateBlog(ctx context.Context, blog *domain.Blog) error
	GetBlog(ctx context.Context, id string) (*domain.Blog, error)
	ListBlogs(ctx context.Context, filters Filters) ([]domain.Blog, int, error)
	UpdateBlogStatus(ctx context.Context, id string, status domain.BlogStatus) (matched, modified int64, err error)
	DeleteBlog(ctx context.Context, id string) (deleted int64, err error)
}
