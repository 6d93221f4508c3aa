package domain

import (
	"math"
	"time"
)

// DonationStatus tracks whether the recipient has reported on a donation.
type DonationStatus string

const (
	DonationStatusPending  DonationStatus = "Pending"
	DonationStatusReported DonationStatus = "Reported"
)

// Usage report bounds, in characters.
const (
	UsageDetailsMinLength = 20
	UsageDetailsMaxLength = 500
)

// Donation represents a contribution from a donor to a recipient. Donor and
// recipient names are snapshots taken when the donation was created.
type Donation struct {
	ID            string
	DonorID       string
	DonorName     string
	RecipientID   string
	RecipientName string
	Amount        float64
	Date          time.Time
	Purpose       string
	Status        DonationStatus
	UsageDetails  string
}

// IsReported reports whether a usage report has been attached.
func (d Donation) IsReported() bool {
	return d.Status == DonationStatusReported
}

// CheckInvariants validates the record-level rules every stored donation must
// satisfy.
func (d Donation) CheckInvariants() error {
	if d.Amount <= 0 || math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
		return &ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	if d.DonorID == "" {
		return &ValidationError{Field: "donor_id", Reason: "is required"}
	}
	if d.RecipientID == "" {
		return &ValidationError{Field: "recipient_id", Reason: "is required"}
	}
	if d.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	switch d.Status {
	case DonationStatusPending:
		if d.UsageDetails != "" {
			return &ValidationError{Field: "usage_details", Reason: "must be empty while pending"}
		}
	case DonationStatusReported:
		if d.UsageDetails == "" {
			return &ValidationError{Field: "usage_details", Reason: "is required once reported"}
		}
	default:
		return &ValidationError{Field: "status", Reason: "unknown status " + string(d.Status)}
	}
	return nil
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
