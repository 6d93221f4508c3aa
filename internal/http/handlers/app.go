// Package handlers exposes the donation lifecycle and the suggestion gateway
// over JSON HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"donortrack/internal/domain"
	"donortrack/internal/donation"
	"donortrack/internal/infra"
	"donortrack/internal/middleware"
	"donortrack/internal/providers/suggest"
)

const maxBodyBytes = 1 << 20

// Donations is the lifecycle service used by the handlers.
type Donations interface {
	CreateDonation(ctx context.Context, input donation.CreateDonationInput) (*domain.Donation, error)
	SubmitUsageReport(ctx context.Context, donationID, usageDetails string) (*domain.Donation, error)
	DonationByID(ctx context.Context, id string) (*domain.Donation, error)
	DonationsForDonor(ctx context.Context, donorID string) ([]domain.Donation, error)
	DonationsForRecipient(ctx context.Context, recipientID string) ([]domain.Donation, error)
	AllDonors(ctx context.Context) ([]domain.User, error)
	AllRecipients(ctx context.Context) ([]domain.User, error)
	User(ctx context.Context, id string, role domain.UserRole) (*domain.User, error)
	DonorSummary(ctx context.Context, donorID string) (*donation.DonorSummary, error)
	RecipientSummary(ctx context.Context, recipientID string) (*donation.RecipientSummary, error)
}

// Suggester produces usage-report suggestions.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (suggest.Suggestion, error)
}

// Identity names the hard-coded "current" donor and recipient.
type Identity struct {
	DonorID     string
	RecipientID string
}

type App struct {
	Donations   Donations
	Suggestions Suggester
	Identity    Identity
	Logger      infra.Logger
}

func NewApp(donations Donations, suggestions Suggester, identity Identity, logger *infra.Logger) *App {
	a := &App{
		Donations:   donations,
		Suggestions: suggestions,
		Identity:    identity,
		Logger:      zerolog.Nop(),
	}
	if logger != nil {
		a.Logger = *logger
	}
	return a
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (a *App) json(w http.ResponseWriter, r *http.Request, code int, v any) {
	render.Status(r, code)
	render.JSON(w, r, v)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, message, field string) {
	a.json(w, r, status, errorBody{Error: errorDetail{Code: code, Message: message, Field: field}})
}

// fail maps service errors onto HTTP responses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.error(w, r, http.StatusUnprocessableEntity, "validation_failed", verr.Error(), verr.Field)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, "not_found", err.Error(), "")
	default:
		a.Logger.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "internal server error", "")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := render.DecodeJSON(r.Body, v); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", "invalid JSON payload", "")
		return false
	}
	return true
}
