package domain

import "time"

// DonationStatus represents the lifecycle state of a donation request.
type DonationStatus string

const (
	DonationStatusPending    DonationStatus = "pending"
	DonationStatusInProgress DonationStatus = "inprogress"
	DonationStatusDone       DonationStatus = "done"
	DonationStatusCanceled   DonationStatus = "canceled"
)

// IsValid checks if the donation status is one of the known values.
func (s DonationStatus) IsValid() bool {
	switch s {
	case DonationStatusPending, DonationStatusInProgress,
		DonationStatusDone, DonationStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is allowed.
// done and canceled are terminal; a request in progress may go back to
// pending when the donor backs out.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	switch s {
	case DonationStatusPending:
		return next == DonationStatusInProgress || next == DonationStatusCanceled
	case DonationStatusInProgress:
		return next == DonationStatusPending || next == DonationStatusDone || next == DonationStatusCanceled
	}
	return false
}

// DonationRequest represents a request for a blood donation, owned by the
// requester identified by email.
type DonationRequest struct {
	ID                string         `json:"_id"`
	RequesterName     string         `json:"requesterName"`
	RequesterEmail    string         `json:"requesterEmail"`
	RecipientName     string         `json:"recipientName"`
	RecipientDistrict string         `json:"recipientDistrict"`
	RecipientUpazila  string         `json:"recipientUpazila"`
	HospitalName      string         `json:"hospitalName"`
	FullAddress       string         `json:"fullAddress"`
	BloodGroup        string         `json:"bloodGroup"`
	DonationDate      string         `json:"donationDate"`
	DonationTime      string         `json:"donationTime"`
	RequestMessage    string         `json:"requestMessage"`
	DonationStatus    DonationStatus `json:"donationStatus"`
	DonorName         string         `json:"donorName,omitempty"`
	DonorEmail        string         `json:"donorEmail,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}
