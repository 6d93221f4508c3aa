package handlers

import (
	"donortrack/internal/domain"
	"donortrack/internal/donation"
)

type userView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

func newUserView(u domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL, Role: string(u.Role())}
}

func newUserViews(users []domain.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, newUserView(u))
	}
	return out
}

type donationView struct {
	ID            string  `json:"id"`
	DonorID       string  `json:"donor_id"`
	DonorName     string  `json:"donor_name"`
	RecipientID   string  `json:"recipient_id"`
	RecipientName string  `json:"recipient_name"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Date          string  `json:"date"`
	Purpose       string  `json:"purpose"`
	Status        string  `json:"status"`
	UsageDetails  string  `json:"usage_details,omitempty"`
}

func newDonationView(d domain.Donation, locale string) donationView {
	return donationView{
		ID:            d.ID,
		DonorID:       d.DonorID,
		DonorName:     d.DonorName,
		RecipientID:   d.RecipientID,
		RecipientName: d.RecipientName,
		Amount:        d.Amount,
		AmountDisplay: formatAmount(locale, d.Amount),
		Date:          d.Date.Format(dateLayout),
		Purpose:       d.Purpose,
		Status:        string(d.Status),
		UsageDetails:  d.UsageDetails,
	}
}

func newDonationViews(items []domain.Donation, locale string) []donationView {
	out := make([]donationView, 0, len(items))
	for _, d := range items {
		out = append(out, newDonationView(d, locale))
	}
	return out
}

type donorSummaryView struct {
	DonorID             string  `json:"donor_id"`
	TotalDonated        float64 `json:"total_donated"`
	TotalDonatedDisplay string  `json:"total_donated_display"`
	DonationCount       int     `json:"donation_count"`
	ReportedCount       int     `json:"reported_count"`
}

type recipientSummaryView struct {
	RecipientID          string  `json:"recipient_id"`
	TotalReceived        float64 `json:"total_received"`
	TotalReceivedDisplay string  `json:"total_received_display"`
	DonationCount        int     `json:"donation_count"`
	PendingReports       int     `json:"pending_reports"`
}

func newDonorSummaryView(s donation.DonorSummary, locale string) donorSummaryView {
	return donorSummaryView{
		DonorID:             s.DonorID,
		TotalDonated:        s.TotalDonated,
		TotalDonatedDisplay: formatAmount(locale, s.TotalDonated),
		DonationCount:       s.DonationCount,
		ReportedCount:       s.ReportedCount,
	}
}

func newRecipientSummaryView(s donation.RecipientSummary, locale string) recipientSummaryView {
	return recipientSummaryView{
		RecipientID:          s.RecipientID,
		TotalReceived:        s.TotalReceived,
		TotalReceivedDisplay: formatAmount(locale, s.TotalReceived),
		DonationCount:        s.DonationCount,
		PendingReports:       s.PendingReports,
	}
}
