package funding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bloodhope/bloodhope-api/internal/payments/stripe"
	"github.com/bloodhope/bloodhope-api/internal/pkg/ctxlog"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the funding module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers routes that require no authentication.
// The payment-intent route is open so a contribution can be started before
// sign-in; it sits behind the caller-supplied rate limiter.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/create-payment-intent", h.CreatePaymentIntent)
}

// RegisterProtectedRoutes registers routes behind the credential verifier.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/funding", h.Create)
	r.Get("/funding", h.List)
}

// CreateRequest represents the request body for recording a contribution.
type CreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Amount   int64  `json:"amount" validate:"required"`
	Currency string `json:"currency"`
}

// Create handles POST /funding.
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

	f, err := h.service.Create(r.Context(), CreateInput(req))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, httputil.InsertResult{
		Acknowledged: true,
		InsertedID:   f.ID,
	})
}

// List handles GET /funding.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r, httputil.DefaultPageLimit)

	items, total, err := h.service.List(r.Context(), Filters{
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.NewEnvelope(page, total, items))
}

// IntentRequest represents the request body for starting a payment.
type IntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// IntentResponse carries the provider's client secret back to the caller.
type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	secret, err := h.service.CreatePaymentIntent(r.Context(), req.Amount, req.Currency)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, IntentResponse{ClientSecret: secret})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidAmount) {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// Provider rejections surface their own message.
	var apiErr *stripe.APIError
	if errors.As(err, &apiErr) {
		ctxlog.FromContext(r.Context()).Error("payment intent rejected",
			"status", apiErr.StatusCode, "message", apiErr.Message)
		httputil.Error(w, http.StatusInternalServerError, apiErr.Message)
		return
	}

	httputil.HandleError(r.Context(), w, err, nil)
}
