//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/bloodhope/bloodhope-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// uniqueEmail returns an email address no other test will use.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

// registerUser creates a user through the open registration endpoint.
func registerUser(t *testing.T, client *testutil.Client, email string) {
	t.Helper()

	resp, err := client.POST("/users", map[string]interface{}{
		"email":      email,
		"name":       "Test User",
		"bloodGroup": "O+",
		"district":   "Dhaka",
		"upazila":    "Savar",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// setUserRole flips a user's stored role directly in the database. Role
// elevation has no open endpoint, so tests reach into the store the way an
// operator would.
func setUserRole(t *testing.T, email, role string) {
	t.Helper()

	tag, err := testDB.Exec(context.Background(),
		`UPDATE users SET role = $2 WHERE email = $1`, email, role)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// registerUserWithRole registers a user and elevates it to the given role.
func registerUserWithRole(t *testing.T, client *testutil.Client, prefix, role string) string {
	t.Helper()

	email := uniqueEmail(prefix)
	registerUser(t, client, email)
	if role != "donor" {
		setUserRole(t, email, role)
	}
	return email
}

// createDonationRequest creates a request as the given client and returns
// its id.
func createDonationRequest(t *testing.T, client *testutil.Client, overrides map[string]interface{}) string {
	t.Helper()

	payload := map[string]interface{}{
		"requesterName":     "Test Requester",
		"recipientName":     "Test Recipient",
		"recipientDistrict": "Dhaka",
		"recipientUpazila":  "Savar",
		"bloodGroup":        "A+",
		"hospitalName":      "Dhaka Medical College",
		"fullAddress":       "Dhaka Medical College, Secretariat Rd, Dhaka",
		"donationDate":      "2026-09-15",
		"donationTime":      "10:00",
	}
	for k, v := range overrides {
		payload[k] = v
	}

	resp, err := client.POST("/donation-requests", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Acknowledged bool   `json:"acknowledged"`
		InsertedID   string `json:"insertedId"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.True(t, result.Acknowledged)
	require.NotEmpty(t, result.InsertedID)

	return result.InsertedID
}
