package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"donortrack/internal/donation"
	"donortrack/internal/middleware"
)

type createDonationRequest struct {
	DonorID          string  `json:"donor_id"`
	RecipientID      string  `json:"recipient_id"`
	NewRecipientName string  `json:"new_recipient_name"`
	Amount           float64 `json:"amount"`
	Purpose          string  `json:"purpose"`
}

type usageReportRequest struct {
	UsageDetails string `json:"usage_details"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

// DonationsCreate records a donation. The donor defaults to the current donor
// when the body omits donor_id.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if !a.decode(w, r, &req) {
		return
	}
	donorID := req.DonorID
	if strings.TrimSpace(donorID) == "" {
		donorID = a.Identity.DonorID
	}
	created, err := a.Donations.CreateDonation(r.Context(), donation.CreateDonationInput{
		DonorID:          donorID,
		RecipientID:      req.RecipientID,
		NewRecipientName: req.NewRecipientName,
		Amount:           req.Amount,
		Purpose:          req.Purpose,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/donations/"+created.ID)
	a.json(w, r, http.StatusCreated, newDonationView(*created, middleware.LocaleFromContext(r.Context())))
}

func (a *App) DonationGet(w http.ResponseWriter, r *http.Request) {
	d, err := a.Donations.DonationByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, newDonationView(*d, middleware.LocaleFromContext(r.Context())))
}

// DonationReport attaches or replaces the usage report of a donation.
func (a *App) DonationReport(w http.ResponseWriter, r *http.Request) {
	var req usageReportRequest
	if !a.decode(w, r, &req) {
		return
	}
	updated, err := a.Donations.SubmitUsageReport(r.Context(), chi.URLParam(r, "id"), req.UsageDetails)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, newDonationView(*updated, middleware.LocaleFromContext(r.Context())))
}

func (a *App) DonorDonations(w http.ResponseWriter, r *http.Request) {
	items, err := a.Donations.DonationsForDonor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, listResponse[donationView]{Items: newDonationViews(items, middleware.LocaleFromContext(r.Context()))})
}

func (a *App) RecipientDonations(w http.ResponseWriter, r *http.Request) {
	items, err := a.Donations.DonationsForRecipient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, listResponse[donationView]{Items: newDonationViews(items, middleware.LocaleFromContext(r.Context()))})
}
