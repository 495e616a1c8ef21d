// Package reviews serves the public testimonial feed. Reviews are
// maintained out of band; only a read endpoint exists.
package reviews

import (
	"context"
	"net/http"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Repository defines the interface for review storage.
type Repository interface {
	ListReviews(ctx context.Context) ([]domain.Review, error)
}

// Handler handles HTTP requests for reviews.
type Handler struct {
	repo Repository
}

// NewHandler creates a new reviews handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterPublicRoutes registers routes that require no authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/reviews", h.List)
}

// List handles GET /reviews.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListReviews(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	// Legacy bare-array shape.
	httputil.JSON(w, http.StatusOK, items)
}
