// Package donations provides HTTP handlers and business logic for donation
// requests.
package donations

import (
	"context"
	"errors"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// Service errors.
var (
	ErrRequestNotFound   = errors.New("donation request not found")
	ErrNotOwner          = errors.New("caller does not own this donation request")
	ErrInvalidStatus     = errors.New("invalid donation status")
	ErrInvalidTransition = errors.New("invalid donation status transition")
)

// RoleLookup resolves the stored role for permission checks.
type RoleLookup interface {
	GetUserRole(ctx context.Context, email string) (domain.Role, error)
}

// Service implements donation request operations.
type Service struct {
	repo  Repository
	roles RoleLookup
}

// NewService creates a new donations service.
func NewService(repo Repository, roles RoleLookup) *Service {
	return &Service{repo: repo, roles: roles}
}

// CreateInput contains the fields of a new donation request.
type CreateInput struct {
	RequesterName     string
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
	RequestMessage    string
}

// Create inserts a new request owned by the authenticated caller. Requests
// always start pending. Identical inputs create distinct records: there is
// no deduplication.
func (s *Service) Create(ctx context.Context, actorEmail string, input CreateInput) (*domain.DonationRequest, error) {
	req := &domain.DonationRequest{
		RequesterName:     input.RequesterName,
		RequesterEmail:    actorEmail,
		RecipientName:     input.RecipientName,
		RecipientDistrict: input.RecipientDistrict,
		RecipientUpazila:  input.RecipientUpazila,
		HospitalName:      input.HospitalName,
		FullAddress:       input.FullAddress,
		BloodGroup:        input.BloodGroup,
		DonationDate:      input.DonationDate,
		DonationTime:      input.DonationTime,
		RequestMessage:    input.RequestMessage,
		DonationStatus:    domain.DonationStatusPending,
	}

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// Get fetches one request by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.DonationRequest, error) {
	return s.repo.GetRequest(ctx, id)
}

// List returns a page of requests with the total match count.
func (s *Service) List(ctx context.Context, filters Filters) ([]domain.DonationRequest, int, error) {
	return s.repo.ListRequests(ctx, filters)
}

// ListByOwner returns the caller's own requests. Listing another user's
// requests is forbidden.
func (s *Service) ListByOwner(ctx context.Context, actorEmail string, filters Filters) ([]domain.DonationRequest, int, error) {
	if actorEmail != filters.RequesterEmail {
		return nil, 0, ErrNotOwner
	}
	return s.repo.ListRequests(ctx, filters)
}

// UpdateInput contains the editable request fields for a full update.
type UpdateInput struct {
	RequesterName     string
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
	RequestMessage    string
}

// Update applies a full update to the request details. Allowed for the owner
// or a privileged role; the lifecycle status is untouched.
func (s *Service) Update(ctx context.Context, actorEmail, id string, input UpdateInput) (int64, int64, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return 0, 0, err
	}

	if !s.canModify(ctx, actorEmail, req) {
		return 0, 0, ErrNotOwner
	}

	req.RequesterName = input.RequesterName
	req.RecipientName = input.RecipientName
	req.RecipientDistrict = input.RecipientDistrict
	req.RecipientUpazila = input.RecipientUpazila
	req.HospitalName = input.HospitalName
	req.FullAddress = input.FullAddress
	req.BloodGroup = input.BloodGroup
	req.DonationDate = input.DonationDate
	req.DonationTime = input.DonationTime
	req.RequestMessage = input.RequestMessage

	return s.repo.UpdateRequest(ctx, req)
}

// StatusInput carries a lifecycle status change.
type StatusInput struct {
	Status    domain.DonationStatus
	DonorName string
}

// UpdateStatus applies a lifecycle transition. Any authenticated user may
// claim a pending request (pending -> inprogress), becoming its donor;
// otherwise only the owner, the claiming donor, or a privileged role may
// move the status.
func (s *Service) UpdateStatus(ctx context.Context, actorEmail, id string, input StatusInput) (int64, int64, error) {
	if !input.Status.IsValid() {
		return 0, 0, ErrInvalidStatus
	}

	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return 0, 0, err
	}

	if !req.DonationStatus.CanTransitionTo(input.Status) {
		return 0, 0, ErrInvalidTransition
	}

	claiming := req.DonationStatus == domain.DonationStatusPending &&
		input.Status == domain.DonationStatusInProgress

	switch {
	case claiming:
		req.DonorEmail = actorEmail
		req.DonorName = input.DonorName
	case actorEmail == req.DonorEmail:
		// claimed donor completing or backing out
		if input.Status == domain.DonationStatusPending {
			req.DonorEmail = ""
			req.DonorName = ""
		}
	case s.canModify(ctx, actorEmail, req):
	default:
		return 0, 0, ErrNotOwner
	}

	req.DonationStatus = input.Status

	return s.repo.UpdateRequest(ctx, req)
}

// Delete removes a request. Allowed for the owner or a privileged role.
func (s *Service) Delete(ctx context.Context, actorEmail, id string) (int64, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return 0, err
	}

	if !s.canModify(ctx, actorEmail, req) {
		return 0, ErrNotOwner
	}

	return s.repo.DeleteRequest(ctx, req.ID)
}

// ListByStatus serves the public status-filtered read.
func (s *Service) ListByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.DonationRequest, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	items, _, err := s.repo.ListRequests(ctx, Filters{Status: &status})
	return items, err
}

// canModify reports whether the actor owns the request or carries a
// privileged role. The role lookup mirrors the role gate: one uncached read.
func (s *Service) canModify(ctx context.Context, actorEmail string, req *domain.DonationRequest) bool {
	if actorEmail == req.RequesterEmail {
		return true
	}

	role, err := s.roles.GetUserRole(ctx, actorEmail)
	if err != nil {
		return false
	}

	return role == domain.RoleAdmin || role == domain.RoleVolunteer
}
