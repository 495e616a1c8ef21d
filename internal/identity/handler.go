package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	tokens    *TokenAuthenticator
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service, tokens *TokenAuthenticator) *Handler {
	return &Handler{
		service:   service,
		tokens:    tokens,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers routes that require no authentication.
// POST /jwt is rate limited at the router level.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/users", h.Register)
	r.Get("/user/{email}", h.GetUser)
	r.Get("/users/donor", h.SearchDonors)
}

// RegisterTokenRoute registers the token issue endpoint.
func (h *Handler) RegisterTokenRoute(r chi.Router) {
	r.Post("/jwt", h.IssueToken)
}

// RegisterProtectedRoutes registers routes behind the credential verifier.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Put("/user/{email}", h.UpdateProfile)
	r.Get("/users/role/{email}", h.GetRole)
}

// RegisterAdminRoutes registers routes behind the admin role gate.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Patch("/user/role/{email}", h.SetRoleStatus)
}

// IssueToken handles POST /jwt. The payload is an arbitrary claims object
// that must contain the caller's email; identity is established out of band.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	token, err := h.tokens.IssueToken(payload)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"token": token})
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Avatar     string `json:"avatar"`
	BloodGroup string `json:"bloodGroup" validate:"required"`
	District   string `json:"district" validate:"required"`
	Upazila    string `json:"upazila" validate:"required"`
}

// Register handles POST /users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
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

	user, err := h.service.Register(r.Context(), RegisterInput(req))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, httputil.InsertResult{
		Acknowledged: true,
		InsertedID:   user.ID,
	})
}

// GetUser handles GET /user/{email}. An absent record is a null success
// payload, not an error.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.service.GetUser(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httputil.JSON(w, http.StatusOK, (*domain.User)(nil))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// UpdateProfileRequest represents the self-service profile update body.
type UpdateProfileRequest struct {
	Name       string `json:"name" validate:"required"`
	Avatar     string `json:"avatar"`
	BloodGroup string `json:"bloodGroup" validate:"required"`
	District   string `json:"district" validate:"required"`
	Upazila    string `json:"upazila" validate:"required"`
}

// UpdateProfile handles PUT /user/{email}. The path email must match the
// verified token; a mismatched caller is rejected before the body is read.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if httputil.GetEmail(r.Context()) != email {
		httputil.Message(w, http.StatusForbidden, "forbidden access")
		return
	}

	var req UpdateProfileRequest
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

	matched, modified, err := h.service.UpdateProfile(r.Context(), httputil.GetEmail(r.Context()), email, ProfileUpdate(req))
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

// SetRoleStatusRequest represents the admin role/status patch body.
type SetRoleStatusRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// SetRoleStatus handles PATCH /user/role/{email}.
func (h *Handler) SetRoleStatus(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req SetRoleStatusRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.Role == "" && req.Status == "" {
		httputil.Error(w, http.StatusBadRequest, "role or status is required")
		return
	}

	var role *domain.Role
	if req.Role != "" {
		v := domain.Role(req.Role)
		role = &v
	}

	var status *domain.UserStatus
	if req.Status != "" {
		s := domain.UserStatus(req.Status)
		status = &s
	}

	matched, modified, err := h.service.SetRoleStatus(r.Context(), email, role, status)
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

// GetRole handles GET /users/role/{email}.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	role, err := h.service.GetRole(r.Context(), httputil.GetEmail(r.Context()), email)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]domain.Role{"role": role})
}

// ListUsers handles GET /users (admin).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r, httputil.DefaultPageLimit)

	filter := UserFilter{
		Limit:  page.Limit,
		Offset: page.Offset(),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.UserStatus(status)
		filter.Status = &s
	}

	users, total, err := h.service.ListUsers(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.NewEnvelope(page, total, users))
}

// SearchDonors handles GET /users/donor (public).
func (h *Handler) SearchDonors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := DonorFilter{
		BloodGroup: q.Get("bloodGroup"),
		District:   q.Get("district"),
		Upazila:    q.Get("upazila"),
	}

	donors, err := h.service.SearchDonors(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	// Legacy bare-array shape.
	httputil.JSON(w, http.StatusOK, donors)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrEmailExists, Status: http.StatusBadRequest},
		{Error: ErrInvalidRole, Status: http.StatusBadRequest},
		{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
		{Error: ErrNotOwner, Status: http.StatusForbidden, Message: "forbidden access"},
		{Error: ErrUserNotFound, Status: http.StatusForbidden, Message: "forbidden access"},
	})
}
