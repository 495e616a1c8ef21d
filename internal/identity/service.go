// Package identity provides registration, session tokens, and user account
// management.
package identity

import (
	"context"
	"errors"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/geo"
)

// Service errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailExists   = errors.New("email already registered")
	ErrNotOwner      = errors.New("caller does not own this resource")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
)

// UserFilter holds filter options for the admin user list.
type UserFilter struct {
	Status *domain.UserStatus
	Limit  int
	Offset int
}

// DonorFilter holds the public donor search criteria. Empty fields match
// everything.
type DonorFilter struct {
	BloodGroup string
	District   string
	Upazila    string
}

// ProfileUpdate carries the self-service profile fields.
type ProfileUpdate struct {
	Name       string
	Avatar     string
	BloodGroup string
	District   string
	Upazila    string
}

// Repository defines the interface for user storage.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserRole(ctx context.Context, email string) (domain.Role, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, int, error)
	UpdateProfile(ctx context.Context, email string, update ProfileUpdate) (matched, modified int64, err error)
	SetRoleStatus(ctx context.Context, email string, role *domain.Role, status *domain.UserStatus) (matched, modified int64, err error)
	SearchDonors(ctx context.Context, filter DonorFilter) ([]domain.User, error)
}

// Service implements user account operations.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput contains the self-registration fields.
type RegisterInput struct {
	Email      string
	Name       string
	Avatar     string
	BloodGroup string
	District   string
	Upazila    string
}

// Register creates a user record. New users start as active donors; roles
// are elevated later by an admin. A duplicate email is rejected.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	user := &domain.User{
		Email:      input.Email,
		Name:       input.Name,
		Avatar:     input.Avatar,
		BloodGroup: input.BloodGroup,
		District:   geo.NormalizeName(input.District),
		Upazila:    geo.NormalizeName(input.Upazila),
		Role:       domain.RoleDonor,
		Status:     domain.UserStatusActive,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser fetches one user by email.
func (s *Service) GetUser(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// ListUsers returns a page of users with the total match count.
func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, int, error) {
	return s.repo.ListUsers(ctx, filter)
}

// UpdateProfile applies a self-service profile update. Only the owner may
// update their profile; a mismatched actor fails before any store write.
func (s *Service) UpdateProfile(ctx context.Context, actorEmail, email string, update ProfileUpdate) (int64, int64, error) {
	if actorEmail != email {
		return 0, 0, ErrNotOwner
	}
	update.District = geo.NormalizeName(update.District)
	update.Upazila = geo.NormalizeName(update.Upazila)
	return s.repo.UpdateProfile(ctx, email, update)
}

// SetRoleStatus applies an admin role and/or status change.
func (s *Service) SetRoleStatus(ctx context.Context, email string, role *domain.Role, status *domain.UserStatus) (int64, int64, error) {
	if role != nil && !role.IsValid() {
		return 0, 0, ErrInvalidRole
	}
	if status != nil && !status.IsValid() {
		return 0, 0, ErrInvalidStatus
	}
	return s.repo.SetRoleStatus(ctx, email, role, status)
}

// GetRole returns the caller's own stored role. Reading another user's role
// is forbidden.
func (s *Service) GetRole(ctx context.Context, actorEmail, email string) (domain.Role, error) {
	if actorEmail != email {
		return "", ErrNotOwner
	}
	return s.repo.GetUserRole(ctx, email)
}

// GetUserRole resolves the stored role for the role gate middleware.
// Implements httputil.RoleLookup.
func (s *Service) GetUserRole(ctx context.Context, email string) (domain.Role, error) {
	return s.repo.GetUserRole(ctx, email)
}

// SearchDonors runs the public donor search. Only active donors are
// returned. Place-name filters are NFC-normalized so Bangla input matches
// the seeded reference names regardless of the client's input method.
func (s *Service) SearchDonors(ctx context.Context, filter DonorFilter) ([]domain.User, error) {
	filter.District = geo.NormalizeName(filter.District)
	filter.Upazila = geo.NormalizeName(filter.Upazila)
	return s.repo.SearchDonors(ctx, filter)
}
