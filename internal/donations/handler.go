package donations

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the donations module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new donations handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers routes that require no authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/donation-request/status/{status}", h.ListByStatus)
}

// RegisterProtectedRoutes registers routes behind the credential verifier.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/donation-requests", h.Create)
	r.Get("/donation-requests/{email}", h.ListByOwner)
	r.Get("/donation-request/{id}", h.Get)
	r.Put("/donation-request/{id}", h.Update)
	r.Patch("/donation-request/{id}", h.UpdateStatus)
	r.Delete("/donation-request/{id}", h.Delete)
}

// RegisterPrivilegedRoutes registers the bulk list behind the
// admin-or-volunteer role gate.
func (h *Handler) RegisterPrivilegedRoutes(r chi.Router) {
	r.Get("/donation-requests", h.List)
}

// CreateRequest represents the request body for creating a donation request.
// The requester email comes from the verified token, not the body.
type CreateRequest struct {
	RequesterName     string `json:"requesterName" validate:"required"`
	RecipientName     string `json:"recipientName" validate:"required"`
	RecipientDistrict string `json:"recipientDistrict" validate:"required"`
	RecipientUpazila  string `json:"recipientUpazila" validate:"required"`
	HospitalName      string `json:"hospitalName" validate:"required"`
	FullAddress       string `json:"fullAddress" validate:"required"`
	BloodGroup        string `json:"bloodGroup" validate:"required"`
	DonationDate      string `json:"donationDate" validate:"required"`
	DonationTime      string `json:"donationTime" validate:"required"`
	RequestMessage    string `json:"requestMessage"`
}

// Create handles POST /donation-requests.
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

	created, err := h.service.Create(r.Context(), httputil.GetEmail(r.Context()), CreateInput{
		RequesterName:     req.RequesterName,
		RecipientName:     req.RecipientName,
		RecipientDistrict: req.RecipientDistrict,
		RecipientUpazila:  req.RecipientUpazila,
		HospitalName:      req.HospitalName,
		FullAddress:       req.FullAddress,
		BloodGroup:        req.BloodGroup,
		DonationDate:      req.DonationDate,
		DonationTime:      req.DonationTime,
		RequestMessage:    req.RequestMessage,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, httputil.InsertResult{
		Acknowledged: true,
		InsertedID:   created.ID,
	})
}

// Get handles GET /donation-request/{id}. An absent record is a null
// success payload, not an error.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			httputil.JSON(w, http.StatusOK, (*domain.DonationRequest)(nil))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, req)
}

// List handles GET /donation-requests (admin or volunteer).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r, httputil.DefaultPageLimit)

	filters := Filters{
		Limit:  page.Limit,
		Offset: page.Offset(),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.DonationStatus(status)
		filters.Status = &s
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.NewEnvelope(page, total, items))
}

// ListByOwner handles GET /donation-requests/{email}. The path email must
// match the verified identity.
func (h *Handler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	page := httputil.ParsePage(r, httputil.DefaultPageLimit)

	filters := Filters{
		RequesterEmail: email,
		Limit:          page.Limit,
		Offset:         page.Offset(),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.DonationStatus(status)
		filters.Status = &s
	}

	items, total, err := h.service.ListByOwner(r.Context(), httputil.GetEmail(r.Context()), filters)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.NewEnvelope(page, total, items))
}

// UpdateRequest represents the request body for a full details update.
type UpdateRequest struct {
	RequesterName     string `json:"requesterName" validate:"required"`
	RecipientName     string `json:"recipientName" validate:"required"`
	RecipientDistrict string `json:"recipientDistrict" validate:"required"`
	RecipientUpazila  string `json:"recipientUpazila" validate:"required"`
	HospitalName      string `json:"hospitalName" validate:"required"`
	FullAddress       string `json:"fullAddress" validate:"required"`
	BloodGroup        string `json:"bloodGroup" validate:"required"`
	DonationDate      string `json:"donationDate" validate:"required"`
	DonationTime      string `json:"donationTime" validate:"required"`
	RequestMessage    string `json:"requestMessage"`
}

// Update handles PUT /donation-request/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateRequest
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

	matched, modified, err := h.service.Update(r.Context(), httputil.GetEmail(r.Context()), id, UpdateInput(req))
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			httputil.JSON(w, http.StatusOK, httputil.UpdateResult{Acknowledged: true})
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  matched,
		ModifiedCount: modified,
	})
}

// StatusRequest represents the request body for a status change.
type StatusRequest struct {
	Status    string `json:"donationStatus" validate:"required"`
	DonorName string `json:"donorName"`
}

// UpdateStatus handles PATCH /donation-request/{id}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	matched, modified, err := h.service.UpdateStatus(r.Context(), httputil.GetEmail(r.Context()), id, StatusInput{
		Status:    domain.DonationStatus(req.Status),
		DonorName: req.DonorName,
	})
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			httputil.JSON(w, http.StatusOK, httputil.UpdateResult{Acknowledged: true})
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  matched,
		ModifiedCount: modified,
	})
}

// Delete handles DELETE /donation-request/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), httputil.GetEmail(r.Context()), id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			httputil.JSON(w, http.StatusOK, httputil.DeleteResult{Acknowledged: true})
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.DeleteResult{
		Acknowledged: true,
		DeletedCount: deleted,
	})
}

// ListByStatus handles GET /donation-request/status/{status} (public).
func (h *Handler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.DonationStatus(chi.URLParam(r, "status"))

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
		{Error: ErrInvalidTransition, Status: http.StatusBadRequest},
		{Error: ErrNotOwner, Status: http.StatusForbidden, Message: "forbidden access"},
	})
}
