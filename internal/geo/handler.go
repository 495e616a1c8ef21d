package geo

import (
	"net/http"

	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the geography reference data.
type Handler struct {
	service *Service
}

// NewHandler creates a new geo handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers routes that require no authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/districts", h.ListDistricts)
	r.Get("/upazilas", h.ListUpazilas)
}

// ListDistricts handles GET /districts.
func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDistricts(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	// Legacy bare-array shape.
	httputil.JSON(w, http.StatusOK, items)
}

// ListUpazilas handles GET /upazilas.
func (h *Handler) ListUpazilas(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListUpazilas(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	httputil.JSON(w, http.StatusOK, items)
}
