package donations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(s *Service) chi.Router {
	r := chi.NewRouter()
	NewHandler(s).RegisterProtectedRoutes(r)
	return r
}

// patchAs issues a PATCH carrying a verified email, the way the auth
// middleware would attach it.
func patchAs(t *testing.T, router http.Handler, target, email, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), httputil.EmailKey, email))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateStatusBodyContract(t *testing.T) {
	t.Run("decodes the donationStatus key", func(t *testing.T) {
		s, repo := newService()
		req := create(t, s)
		router := newTestRouter(s)

		rec := patchAs(t, router, "/donation-request/"+req.ID, "donor@example.com",
			`{"donationStatus":"inprogress","donorName":"Claiming Donor"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result struct {
			Acknowledged bool  `json:"acknowledged"`
			MatchedCount int64 `json:"matchedCount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Acknowledged)
		assert.EqualValues(t, 1, result.MatchedCount)

		stored := repo.requests[req.ID]
		require.NotNil(t, stored)
		assert.Equal(t, domain.DonationStatusInProgress, stored.DonationStatus)
		assert.Equal(t, "donor@example.com", stored.DonorEmail)
		assert.Equal(t, "Claiming Donor", stored.DonorName)
	})

	t.Run("rejects unknown body keys", func(t *testing.T) {
		s, _ := newService()
		req := create(t, s)
		router := newTestRouter(s)

		rec := patchAs(t, router, "/donation-request/"+req.ID, "donor@example.com",
			`{"status":"inprogress"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
