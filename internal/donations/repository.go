package donations

import (
	"context"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// Filters holds filter options for listing donation requests. Zero-valued
// fields are not applied.
type Filters struct {
	Status         *domain.DonationStatus
	RequesterEmail string
	Limit          int
	Offset         int
}

// Repository defines the interface for donation request storage.
type Repository interface {
	CreateRequest(ctx context.Context, req *domain.DonationRequest) error
	GetRequest(ctx context.Context, id string) (*domain.DonationRequest, error)
	ListRequests(ctx context.Context, filters Filters) ([]domain.DonationRequest, int, error)
	UpdateRequest(ctx context.Context, req *domain.DonationRequest) (matched, modified int64, err error)
	DeleteRequest(ctx context.Context, id string) (deleted int64, err error)
}
