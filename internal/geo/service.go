// Package geo serves the static district and upazila reference data.
package geo

import (
	"context"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Service implements geography reads.
type Service struct {
	repo Repository
}

// NewService creates a new geo service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListDistricts returns all districts ordered by name.
func (s *Service) ListDistricts(ctx context.Context) ([]domain.District, error) {
	items, err := s.repo.ListDistricts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Name = NormalizeName(items[i].Name)
		items[i].BnName = NormalizeName(items[i].BnName)
	}
	return items, nil
}

// ListUpazilas returns all upazilas ordered by name.
func (s *Service) ListUpazilas(ctx context.Context) ([]domain.Upazila, error) {
	items, err := s.repo.ListUpazilas(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Name = NormalizeName(items[i].Name)
		items[i].BnName = NormalizeName(items[i].BnName)
	}
	return items, nil
}

// NormalizeName canonicalizes a place name to NFC. Bangla names arrive in
// mixed composed/decomposed forms depending on the input method, which
// breaks equality matching in donor-search filters.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
