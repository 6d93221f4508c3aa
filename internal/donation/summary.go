package donation

import (
	"context"

	"donortrack/internal/domain"
)

// DonorSummary aggregates a donor's dashboard figures.
type DonorSummary struct {
	DonorID       string
	TotalDonated  float64
	DonationCount int
	ReportedCount int
}

// RecipientSummary aggregates a recipient's dashboard figures.
type RecipientSummary struct {
	RecipientID    string
	TotalReceived  float64
	DonationCount  int
	PendingReports int
}

// DonorSummary totals the donations made by donorID.
func (s *Service) DonorSummary(ctx context.Context, donorID string) (*DonorSummary, error) {
	if _, err := s.User(ctx, donorID, domain.UserRoleDonor); err != nil {
		return nil, err
	}
	items, err := s.DonationsForDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	sum := &DonorSummary{DonorID: donorID, DonationCount: len(items)}
	for _, d := range items {
		sum.TotalDonated += d.Amount
		if d.IsReported() {
			sum.ReportedCount++
		}
	}
	return sum, nil
}

// RecipientSummary totals the donations received by recipientID and counts
// those still waiting for a usage report.
func (s *Service) RecipientSummary(ctx context.Context, recipientID string) (*RecipientSummary, error) {
	if _, err := s.User(ctx, recipientID, domain.UserRoleRecipient); err != nil {
		return nil, err
	}
	items, err := s.DonationsForRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	sum := &RecipientSummary{RecipientID: recipientID, DonationCount: len(items)}
	for _, d := range items {
		sum.TotalReceived += d.Amount
		if !d.IsReported() {
			sum.PendingReports++
		}
	}
	return sum, nil
}
