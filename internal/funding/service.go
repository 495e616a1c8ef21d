// Package funding provides HTTP handlers and business logic for monetary
// contributions and the payment-intent bridge.
package funding

import (
	"context"
	"errors"
	"strings"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// Service errors.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

const defaultCurrency = "usd"

// PaymentIntenter creates payment intents with an external provider.
type PaymentIntenter interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}

// Service implements funding operations.
type Service struct {
	repo     Repository
	payments PaymentIntenter
}

// NewService creates a new funding service.
func NewService(repo Repository, payments PaymentIntenter) *Service {
	return &Service{repo: repo, payments: payments}
}

// CreateInput contains the fields of a new funding record.
type CreateInput struct {
	Name     string
	Email    string
	Amount   int64
	Currency string
}

// Create appends a funding record.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Funding, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	f := &domain.Funding{
		Name:     input.Name,
		Email:    input.Email,
		Amount:   input.Amount,
		Currency: normalizeCurrency(input.Currency),
	}

	if err := s.repo.CreateFunding(ctx, f); err != nil {
		return nil, err
	}

	return f, nil
}

// List returns a page of funding records with the total match count.
func (s *Service) List(ctx context.Context, filters Filters) ([]domain.Funding, int, error) {
	return s.repo.ListFunding(ctx, filters)
}

// CreatePaymentIntent asks the payment provider for a client secret. The
// amount is validated before any provider call.
func (s *Service) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	return s.payments.CreatePaymentIntent(ctx, amount, normalizeCurrency(currency))
}

func normalizeCurrency(currency string) string {
	if currency == "" {
		return defaultCurrency
	}
	return strings.ToLower(currency)
}
