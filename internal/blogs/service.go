// Package blogs provides HTTP handlers and business logic for blog posts.
package blogs

import (
	"context"
	"errors"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// Service errors.
var (
	ErrBlogNotFound  = errors.New("blog not found")
	ErrInvalidStatus = errors.New("invalid blog status")
)

// Service implements blog operations. Role restrictions (volunteer/admin
// for create and list, admin for status changes and deletion) are enforced
// by the role gates on the routes.
type Service struct {
	repo Repository
}

// NewService creates a new blogs service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput contains the fields of a new blog post.
type CreateInput struct {
	Title     string
	Thumbnail string
	Content   string
}

// Create inserts a new draft owned by the authenticated author.
func (s *Service) Create(ctx context.Context, authorEmail string, input CreateInput) (*domain.Blog, error) {
	blog := &domain.Blog{
		Title:       input.Title,
		Thumbnail:   input.Thumbnail,
		Content:     input.Content,
		Status:      domain.BlogStatusDraft,
		AuthorEmail: authorEmail,
	}

	if err := s.repo.CreateBlog(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// Get fetches one blog by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Blog, error) {
	return s.repo.GetBlog(ctx, id)
}

// List returns a page of blogs with the total match count.
func (s *Service) List(ctx context.Context, filters Filters) ([]domain.Blog, int, error) {
	return s.repo.ListBlogs(ctx, filters)
}

// SetStatus moves a blog between draft and published. Both directions are
// allowed: publishing a draft and unpublishing back to draft.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.BlogStatus) (int64, int64, error) {
	if !status.IsValid() {
		return 0, 0, ErrInvalidStatus
	}
	return s.repo.UpdateBlogStatus(ctx, id, status)
}

// Delete removes a blog by id.
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	return s.repo.DeleteBlog(ctx, id)
}

// ListByStatus serves the public status-filtered read.
func (s *Service) ListByStatus(ctx context.Context, status domain.BlogStatus) ([]domain.Blog, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	items, _, err := s.repo.ListBlogs(ctx, Filters{Status: &status})
	return items, err
}
