package blogs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the blogs module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new blogs handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers routes that require no authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/blogs/status/{status}", h.ListByStatus)
}

// RegisterPrivilegedRoutes registers routes behind the admin-or-volunteer
// role gate.
func (h *Handler) RegisterPrivilegedRoutes(r chi.Router) {
	r.Post("/blogs", h.Create)
	r.Get("/blogs", h.List)
	r.Get("/blog/{id}", h.Get)
}

// RegisterAdminRoutes registers routes behind the admin role gate.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Patch("/blog/{id}", h.SetStatus)
	r.Delete("/blog/{id}", h.Delete)
}

// CreateRequest represents the request body for creating a blog post.
type CreateRequest struct {
	Title     string `json:"title" validate:"required"`
	Thumbnail string `json:"thumbnail"`
	Content   string `json:"content" validate:"required"`
}

// Create handles POST /blogs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	blog, err := h.service.Create(r.Context(), httputil.GetEmail(r.Context()), CreateInput(req))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, httputil.InsertResult{
		Acknowledged: true,
		InsertedID:   blog.ID,
	})
}

// Get handles GET /blog/{id} (admin or volunteer). An absent record is a
// null success payload, not an error.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blog, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			httputil.JSON(w, http.StatusOK, (*domain.Blog)(nil))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, blog)
}

// List handles GET /blogs (admin or volunteer).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r, httputil.DefaultPageLimit)

	filters := Filters{
		Limit:  page.Limit,
		Offset: page.Offset(),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.BlogStatus(status)
		filters.Status = &s
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.NewEnvelope(page, total, items))
}

// StatusRequest represents the request body for a status change.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus handles PATCH /blog/{id} (admin).
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req StatusRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	matched, modified, err := h.service.SetStatus(r.Context(), id, domain.BlogStatus(req.Status))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  matched,
		ModifiedCount: modified,
	})
}

// Delete handles DELETE /blog/{id} (admin).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.DeleteResult{
		Acknowledged: true,
		DeletedCount: deleted,
	})
}

// ListByStatus handles GET /blogs/status/{status} (public).
func (h *Handler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.BlogStatus(chi.URLParam(r, "status"))

	items, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	// Legacy bare-array shape.
	httputil.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
	})
}
