// Package stripe provides a minimal Stripe API client for creating
// payment intents.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bloodhope/bloodhope-api/internal/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.stripe.com"
	defaultTimeout = 10 * time.Second
)

// ErrInvalidAmount is returned for non-positive amounts before any
// provider call is made.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

// APIError carries the provider's error message for a failed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe: %s (status %d)", e.Message, e.StatusCode)
}

// Config holds Stripe client configuration.
type Config struct {
	SecretKey string
	BaseURL   string        // overridable for tests
	Timeout   time.Duration // request timeout
}

// Client calls the Stripe REST API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Stripe client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// CreatePaymentIntent creates a payment intent for the given amount in the
// smallest currency unit and returns its client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("error").Inc()
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.PaymentIntents.WithLabelValues("failed").Inc()
		return "", parseAPIError(resp.StatusCode, body)
	}

	var intent struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if intent.ClientSecret == "" {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "response missing client_secret"}
	}

	metrics.PaymentIntents.WithLabelValues("created").Inc()
	return intent.ClientSecret, nil
}

func parseAPIError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return &APIError{StatusCode: status, Message: payload.Error.Message}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}
