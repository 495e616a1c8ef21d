package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	email  string
	claims map[string]interface{}
	err    error
	calls  int
}

func (m *mockVerifier) VerifyToken(_ context.Context, _ string) (string, map[string]interface{}, error) {
	m.calls++
	return m.email, m.claims, m.err
}

type mockRoleLookup struct {
	role  domain.Role
	err   error
	calls int
}

func (m *mockRoleLookup) GetUserRole(_ context.Context, _ string) (domain.Role, error) {
	m.calls++
	return m.role, m.err
}

func TestAuthMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing header short-circuits without verifying", func(t *testing.T) {
		verifier := &mockVerifier{}
		handler := AuthMiddleware(verifier)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())
		assert.Zero(t, verifier.calls)
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		handler := AuthMiddleware(&mockVerifier{})(okHandler)

		req := httptest.NewRequest("GET", "/x", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("verifier rejection", func(t *testing.T) {
		handler := AuthMiddleware(&mockVerifier{err: errors.New("bad token")})(okHandler)

		req := httptest.NewRequest("GET", "/x", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token attaches email and claims", func(t *testing.T) {
		verifier := &mockVerifier{
			email:  "ok@example.com",
			claims: map[string]interface{}{"email": "ok@example.com", "plan": "gold"},
		}

		var gotEmail string
		var gotClaims map[string]interface{}
		handler := AuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotEmail = GetEmail(r.Context())
			gotClaims = GetClaims(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/x", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok@example.com", gotEmail)
		assert.Equal(t, "gold", gotClaims["plan"])
	})
}

func TestRequireRole(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withEmail := func(req *http.Request, email string) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), EmailKey, email))
	}

	t.Run("allowed role passes", func(t *testing.T) {
		lookup := &mockRoleLookup{role: domain.RoleAdmin}
		handler := RequireRole(lookup, domain.RoleAdmin)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withEmail(httptest.NewRequest("GET", "/x", nil), "a@example.com"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, lookup.calls)
	})

	t.Run("role outside the allowed set", func(t *testing.T) {
		lookup := &mockRoleLookup{role: domain.RoleDonor}
		handler := RequireRole(lookup, domain.RoleAdmin, domain.RoleVolunteer)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withEmail(httptest.NewRequest("GET", "/x", nil), "d@example.com"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"message":"forbidden access"}`, rec.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		lookup := &mockRoleLookup{err: errors.New("user not found")}
		handler := RequireRole(lookup, domain.RoleAdmin)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withEmail(httptest.NewRequest("GET", "/x", nil), "ghost@example.com"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing verified email", func(t *testing.T) {
		lookup := &mockRoleLookup{role: domain.RoleAdmin}
		handler := RequireRole(lookup, domain.RoleAdmin)(okHandler)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, lookup.calls)
	})
}
