package geo

import (
	"context"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// Repository defines the interface for the static geography reference data.
// The tables are seeded by migration and read-only over HTTP.
type Repository interface {
	ListDistricts(ctx context.Context) ([]domain.District, error)
	ListUpazilas(ctx context.Context) ([]domain.Upazila, error)
}
