package donations

import (
	"context"
	"testing"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	requests map[string]*domain.DonationRequest
	nextID   int
}

func newMockRepository() *mockRepository {
	return &mockRepository{requests: make(map[string]*domain.DonationRequest)}
}

func (m *mockRepository) CreateRequest(_ context.Context, req *domain.DonationRequest) error {
	m.nextID++
	req.ID = string(rune('a' + m.nextID))
	stored := *req
	m.requests[req.ID] = &stored
	return nil
}

func (m *mockRepository) GetRequest(_ context.Context, id string) (*domain.DonationRequest, error) {
	if req, ok := m.requests[id]; ok {
		clone := *req
		return &clone, nil
	}
	return nil, ErrRequestNotFound
}

func (m *mockRepository) ListRequests(_ context.Context, filters Filters) ([]domain.DonationRequest, int, error) {
	items := make([]domain.DonationRequest, 0)
	for _, req := range m.requests {
		if filters.Status != nil && req.DonationStatus != *filters.Status {
			continue
		}
		if filters.RequesterEmail != "" && req.RequesterEmail != filters.RequesterEmail {
			continue
		}
		items = append(items, *req)
	}
	return items, len(items), nil
}

func (m *mockRepository) UpdateRequest(_ context.Context, req *domain.DonationRequest) (int64, int64, error) {
	if _, ok := m.requests[req.ID]; !ok {
		return 0, 0, nil
	}
	stored := *req
	m.requests[req.ID] = &stored
	return 1, 1, nil
}

func (m *mockRepository) DeleteRequest(_ context.Context, id string) (int64, error) {
	if _, ok := m.requests[id]; !ok {
		return 0, nil
	}
	delete(m.requests, id)
	return 1, nil
}

// mockRoles implements RoleLookup for testing.
type mockRoles struct {
	roles map[string]domain.Role
}

func (m *mockRoles) GetUserRole(_ context.Context, email string) (domain.Role, error) {
	if role, ok := m.roles[email]; ok {
		return role, nil
	}
	return "", assert.AnError
}

func newService() (*Service, *mockRepository) {
	repo := newMockRepository()
	roles := &mockRoles{roles: map[string]domain.Role{
		"owner@example.com":     domain.RoleDonor,
		"donor@example.com":     domain.RoleDonor,
		"stranger@example.com":  domain.RoleDonor,
		"volunteer@example.com": domain.RoleVolunteer,
		"admin@example.com":     domain.RoleAdmin,
	}}
	return NewService(repo, roles), repo
}

func create(t *testing.T, s *Service) *domain.DonationRequest {
	t.Helper()
	req, err := s.Create(context.Background(), "owner@example.com", CreateInput{
		RequesterName: "Owner",
		RecipientName: "Patient",
		BloodGroup:    "B+",
	})
	require.NoError(t, err)
	return req
}

func TestCreateStartsPending(t *testing.T) {
	s, _ := newService()
	req := create(t, s)

	assert.Equal(t, domain.DonationStatusPending, req.DonationStatus)
	assert.Equal(t, "owner@example.com", req.RequesterEmail)
	assert.Empty(t, req.DonorEmail)
}

func TestUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("claiming records the actor as donor", func(t *testing.T) {
		s, repo := newService()
		req := create(t, s)

		matched, _, err := s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{
			Status:    domain.DonationStatusInProgress,
			DonorName: "Willing Donor",
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, matched)

		stored := repo.requests[req.ID]
		assert.Equal(t, domain.DonationStatusInProgress, stored.DonationStatus)
		assert.Equal(t, "donor@example.com", stored.DonorEmail)
		assert.Equal(t, "Willing Donor", stored.DonorName)
	})

	t.Run("backing out clears the donor", func(t *testing.T) {
		s, repo := newService()
		req := create(t, s)

		_, _, err := s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{Status: domain.DonationStatusInProgress})
		require.NoError(t, err)
		_, _, err = s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{Status: domain.DonationStatusPending})
		require.NoError(t, err)

		stored := repo.requests[req.ID]
		assert.Equal(t, domain.DonationStatusPending, stored.DonationStatus)
		assert.Empty(t, stored.DonorEmail)
		assert.Empty(t, stored.DonorName)
	})

	t.Run("pending cannot jump to done", func(t *testing.T) {
		s, _ := newService()
		req := create(t, s)

		_, _, err := s.UpdateStatus(ctx, "owner@example.com", req.ID, StatusInput{Status: domain.DonationStatusDone})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("done is terminal", func(t *testing.T) {
		s, _ := newService()
		req := create(t, s)

		_, _, err := s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{Status: domain.DonationStatusInProgress})
		require.NoError(t, err)
		_, _, err = s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{Status: domain.DonationStatusDone})
		require.NoError(t, err)

		_, _, err = s.UpdateStatus(ctx, "admin@example.com", req.ID, StatusInput{Status: domain.DonationStatusPending})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("arbitrary status strings are rejected", func(t *testing.T) {
		s, _ := newService()
		req := create(t, s)

		_, _, err := s.UpdateStatus(ctx, "owner@example.com", req.ID, StatusInput{Status: "finished"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("stranger cannot move a claimed request", func(t *testing.T) {
		s, _ := newService()
		req := create(t, s)

		_, _, err := s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{Status: domain.DonationStatusInProgress})
		require.NoError(t, err)

		_, _, err = s.UpdateStatus(ctx, "stranger@example.com", req.ID, StatusInput{Status: domain.DonationStatusDone})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("volunteer may cancel any claimed request", func(t *testing.T) {
		s, repo := newService()
		req := create(t, s)

		_, _, err := s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{Status: domain.DonationStatusInProgress})
		require.NoError(t, err)

		_, _, err = s.UpdateStatus(ctx, "volunteer@example.com", req.ID, StatusInput{Status: domain.DonationStatusCanceled})
		require.NoError(t, err)
		assert.Equal(t, domain.DonationStatusCanceled, repo.requests[req.ID].DonationStatus)
	})
}

func TestUpdateOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("stranger cannot edit", func(t *testing.T) {
		s, _ := newService()
		req := create(t, s)

		_, _, err := s.Update(ctx, "stranger@example.com", req.ID, UpdateInput{RequesterName: "Hijacked"})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("admin can edit without owning", func(t *testing.T) {
		s, repo := newService()
		req := create(t, s)

		_, _, err := s.Update(ctx, "admin@example.com", req.ID, UpdateInput{
			RequesterName: "Owner",
			RecipientName: "Patient",
			BloodGroup:    "O-",
		})
		require.NoError(t, err)
		assert.Equal(t, "O-", repo.requests[req.ID].BloodGroup)
	})

	t.Run("full update keeps the lifecycle status", func(t *testing.T) {
		s, repo := newService()
		req := create(t, s)

		_, _, err := s.UpdateStatus(ctx, "donor@example.com", req.ID, StatusInput{Status: domain.DonationStatusInProgress})
		require.NoError(t, err)

		_, _, err = s.Update(ctx, "owner@example.com", req.ID, UpdateInput{
			RequesterName: "Owner",
			RecipientName: "Renamed Patient",
			BloodGroup:    "B+",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DonationStatusInProgress, repo.requests[req.ID].DonationStatus)
	})
}

func TestListByOwner(t *testing.T) {
	s, _ := newService()
	create(t, s)

	_, _, err := s.ListByOwner(context.Background(), "stranger@example.com", Filters{
		RequesterEmail: "owner@example.com",
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	items, total, err := s.ListByOwner(context.Background(), "owner@example.com", Filters{
		RequesterEmail: "owner@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}

func TestListByStatusValidation(t *testing.T) {
	s, _ := newService()

	_, err := s.ListByStatus(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
