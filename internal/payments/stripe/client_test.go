package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent(t *testing.T) {
	t.Run("sends a form-encoded request and returns the client secret", func(t *testing.T) {
		var gotAuth, gotContentType, gotAmount, gotCurrency string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/payment_intents", r.URL.Path)
			require.NoError(t, r.ParseForm())

			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			gotAmount = r.PostForm.Get("amount")
			gotCurrency = r.PostForm.Get("currency")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret_abc"}`))
		}))
		defer server.Close()

		client := NewClient(Config{SecretKey: "sk_test_123", BaseURL: server.URL})

		secret, err := client.CreatePaymentIntent(context.Background(), 2500, "usd")
		require.NoError(t, err)

		assert.Equal(t, "pi_1_secret_abc", secret)
		assert.Equal(t, "Bearer sk_test_123", gotAuth)
		assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
		assert.Equal(t, "2500", gotAmount)
		assert.Equal(t, "usd", gotCurrency)
	})

	t.Run("surfaces the provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
		}))
		defer server.Close()

		client := NewClient(Config{SecretKey: "sk_test_123", BaseURL: server.URL})

		_, err := client.CreatePaymentIntent(context.Background(), 2500, "usd")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
		assert.Equal(t, "Your card was declined.", apiErr.Message)
	})

	t.Run("unparseable error body falls back to the status text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>gateway error</html>"))
		}))
		defer server.Close()

		client := NewClient(Config{SecretKey: "sk_test_123", BaseURL: server.URL})

		_, err := client.CreatePaymentIntent(context.Background(), 2500, "usd")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
	})

	t.Run("non-positive amount short-circuits without a request", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		}))
		defer server.Close()

		client := NewClient(Config{SecretKey: "sk_test_123", BaseURL: server.URL})

		_, err := client.CreatePaymentIntent(context.Background(), 0, "usd")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.False(t, called)
	})

	t.Run("success without client secret is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pi_2"}`))
		}))
		defer server.Close()

		client := NewClient(Config{SecretKey: "sk_test_123", BaseURL: server.URL})

		_, err := client.CreatePaymentIntent(context.Background(), 2500, "usd")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
	})
}
