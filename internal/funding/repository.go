package funding

import (
	"context"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// Filters holds filter options for listing funding records.
type Filters struct {
	Limit  int
	Offset int
}

// Repository defines the interface for funding storage. The store is
// append-only: records are never updated or deleted.
type Repository interface {
	CreateFunding(ctx context.Context, f *domain.Funding) error
	ListFunding(ctx context.Context, filters Filters) ([]domain.Funding, int, error)
}
