//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/bloodhope/bloodhope-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationRequestCreation(t *testing.T) {
	client := newTestClient(t)
	requester := registerUserWithRole(t, client, "req-creator", "donor")

	c := newTestClient(t)
	c.LoginAs(t, requester)

	t.Run("requires a token", func(t *testing.T) {
		resp, err := newTestClientWithoutValidation().POST("/donation-requests", map[string]interface{}{
			"requesterName": "Nobody",
			"recipientName": "Nobody",
			"bloodGroup":    "A+",
		})
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("identical posts create distinct records", func(t *testing.T) {
		first := createDonationRequest(t, c, nil)
		second := createDonationRequest(t, c, nil)
		assert.NotEqual(t, first, second)
	})

	t.Run("new requests start pending with the caller as owner", func(t *testing.T) {
		id := createDonationRequest(t, c, nil)

		resp, err := c.GET("/donation-request/" + id)
		require.NoError(t, err)

		var req struct {
			RequesterEmail string `json:"requesterEmail"`
			DonationStatus string `json:"donationStatus"`
		}
		testutil.DecodeJSON(t, resp, &req)
		assert.Equal(t, requester, req.RequesterEmail)
		assert.Equal(t, "pending", req.DonationStatus)
	})

	t.Run("absent id reads as null", func(t *testing.T) {
		resp, err := c.GET("/donation-request/00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		body := testutil.ReadBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "null", body)
	})
}

func TestDonationRequestOwnerList(t *testing.T) {
	client := newTestClient(t)
	owner := registerUserWithRole(t, client, "list-owner", "donor")
	stranger := registerUserWithRole(t, client, "list-stranger", "donor")

	c := newTestClient(t)
	c.LoginAs(t, owner)

	id := createDonationRequest(t, c, nil)
	createDonationRequest(t, c, nil)

	volunteer := registerUserWithRole(t, client, "list-volunteer", "volunteer")
	vc := newTestClient(t)
	vc.LoginAs(t, volunteer)
	resp, err := vc.PATCH("/donation-request/"+id, map[string]interface{}{
		"donationStatus": "inprogress",
		"donorName":      "List Volunteer",
	})
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("owner and status filters are conjunctive", func(t *testing.T) {
		resp, err := c.GET("/donation-requests/" + owner + "?status=inprogress")
		require.NoError(t, err)

		var envelope struct {
			Total int `json:"total"`
			Data  []struct {
				ID             string `json:"_id"`
				RequesterEmail string `json:"requesterEmail"`
				DonationStatus string `json:"donationStatus"`
			} `json:"data"`
		}
		testutil.DecodeJSON(t, resp, &envelope)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, envelope.Data, 1)
		assert.Equal(t, id, envelope.Data[0].ID)
		assert.Equal(t, owner, envelope.Data[0].RequesterEmail)
		assert.Equal(t, "inprogress", envelope.Data[0].DonationStatus)
	})

	t.Run("another user's list is forbidden", func(t *testing.T) {
		sc := newTestClientWithoutValidation()
		sc.LoginAs(t, stranger)
		resp, err := sc.GET("/donation-requests/" + owner)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDonationStatusTransitions(t *testing.T) {
	client := newTestClient(t)
	owner := registerUserWithRole(t, client, "trans-owner", "donor")
	donor := registerUserWithRole(t, client, "trans-donor", "donor")

	oc := newTestClient(t)
	oc.LoginAs(t, owner)
	dc := newTestClient(t)
	dc.LoginAs(t, donor)

	patchStatus := func(t *testing.T, c *testutil.Client, id, status string) *http.Response {
		t.Helper()
		resp, err := c.PATCH("/donation-request/"+id, map[string]interface{}{
			"donationStatus": status,
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("pending to done is rejected", func(t *testing.T) {
		id := createDonationRequest(t, oc, nil)
		resp := patchStatus(t, oc.WithoutValidation(), id, "done")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("claiming records the donor", func(t *testing.T) {
		id := createDonationRequest(t, oc, nil)

		resp, err := dc.PATCH("/donation-request/"+id, map[string]interface{}{
			"donationStatus": "inprogress",
			"donorName":      "Transition Donor",
		})
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		check, err := oc.GET("/donation-request/" + id)
		require.NoError(t, err)
		var req struct {
			DonationStatus string `json:"donationStatus"`
			DonorName      string `json:"donorName"`
			DonorEmail     string `json:"donorEmail"`
		}
		testutil.DecodeJSON(t, check, &req)
		assert.Equal(t, "inprogress", req.DonationStatus)
		assert.Equal(t, "Transition Donor", req.DonorName)
		assert.Equal(t, donor, req.DonorEmail)
	})

	t.Run("backing out clears the donor", func(t *testing.T) {
		id := createDonationRequest(t, oc, nil)

		resp := patchStatus(t, dc, id, "inprogress")
		_ = resp.Body.Close()
		resp = patchStatus(t, dc, id, "pending")
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		check, err := oc.GET("/donation-request/" + id)
		require.NoError(t, err)
		var req struct {
			DonationStatus string `json:"donationStatus"`
			DonorEmail     string `json:"donorEmail"`
		}
		testutil.DecodeJSON(t, check, &req)
		assert.Equal(t, "pending", req.DonationStatus)
		assert.Empty(t, req.DonorEmail)
	})

	t.Run("done is terminal", func(t *testing.T) {
		id := createDonationRequest(t, oc, nil)

		resp := patchStatus(t, dc, id, "inprogress")
		_ = resp.Body.Close()
		resp = patchStatus(t, dc, id, "done")
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = patchStatus(t, oc.WithoutValidation(), id, "pending")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("arbitrary status strings are rejected", func(t *testing.T) {
		id := createDonationRequest(t, oc, nil)
		resp := patchStatus(t, oc.WithoutValidation(), id, "finished")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDonationRequestMutationOwnership(t *testing.T) {
	client := newTestClient(t)
	owner := registerUserWithRole(t, client, "mut-owner", "donor")
	stranger := registerUserWithRole(t, client, "mut-stranger", "donor")
	volunteer := registerUserWithRole(t, client, "mut-volunteer", "volunteer")

	oc := newTestClient(t)
	oc.LoginAs(t, owner)

	t.Run("stranger cannot delete", func(t *testing.T) {
		id := createDonationRequest(t, oc, nil)

		sc := newTestClientWithoutValidation()
		sc.LoginAs(t, stranger)
		resp, err := sc.DELETE("/donation-request/" + id)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("volunteer can delete any request", func(t *testing.T) {
		id := createDonationRequest(t, oc, nil)

		vc := newTestClient(t)
		vc.LoginAs(t, volunteer)
		resp, err := vc.DELETE("/donation-request/" + id)
		require.NoError(t, err)

		var result struct {
			Acknowledged bool  `json:"acknowledged"`
			DeletedCount int64 `json:"deletedCount"`
		}
		testutil.DecodeJSON(t, resp, &result)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, result.DeletedCount)
	})

	t.Run("deleting an absent id acknowledges zero", func(t *testing.T) {
		resp, err := oc.DELETE("/donation-request/00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)

		var result struct {
			Acknowledged bool  `json:"acknowledged"`
			DeletedCount int64 `json:"deletedCount"`
		}
		testutil.DecodeJSON(t, resp, &result)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, result.Acknowledged)
		assert.EqualValues(t, 0, result.DeletedCount)
	})
}

func TestPublicDonationStatusList(t *testing.T) {
	client := newTestClient(t)
	owner := registerUserWithRole(t, client, "pub-owner", "donor")

	oc := newTestClient(t)
	oc.LoginAs(t, owner)
	createDonationRequest(t, oc, nil)

	t.Run("pending list is open and bare", func(t *testing.T) {
		resp, err := client.GET("/donation-request/status/pending")
		require.NoError(t, err)

		var items []struct {
			DonationStatus string `json:"donationStatus"`
		}
		testutil.DecodeJSON(t, resp, &items)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, items)
		for _, item := range items {
			assert.Equal(t, "pending", item.DonationStatus)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		resp, err := newTestClientWithoutValidation().GET("/donation-request/status/bogus")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
