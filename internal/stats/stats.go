// Package stats serves the admin dashboard counters.
package stats

import (
	"context"
	"net/http"

	"github.com/bloodhope/bloodhope-api/internal/pkg/ctxlog"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Totals aggregates the dashboard counters. Funding is summed in the
// smallest currency unit.
type Totals struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalRequests int64 `json:"totalRequests"`
	TotalFunding  int64 `json:"totalFunding"`
}

// Repository defines the interface for the aggregate queries.
type Repository interface {
	Totals(ctx context.Context) (Totals, error)
}

// Handler handles HTTP requests for admin stats.
type Handler struct {
	repo Repository
}

// NewHandler creates a new stats handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterProtectedRoutes registers routes behind the credential verifier.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/admin-stat/{role}", h.Get)
}

// Get handles GET /admin-stat/{role}. The role segment is a legacy client
// artifact; it is logged and otherwise ignored.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if role := chi.URLParam(r, "role"); role != "" {
		ctxlog.FromContext(r.Context()).Debug("admin stat requested", "role_segment", role)
	}

	totals, err := h.repo.Totals(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	httputil.JSON(w, http.StatusOK, totals)
}
