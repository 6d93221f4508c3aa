package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donortrack/internal/domain"
	"donortrack/internal/middleware"
)

func (a *App) MeDonor(w http.ResponseWriter, r *http.Request) {
	a.writeUser(w, r, a.Identity.DonorID, domain.UserRoleDonor)
}

func (a *App) MeRecipient(w http.ResponseWriter, r *http.Request) {
	a.writeUser(w, r, a.Identity.RecipientID, domain.UserRoleRecipient)
}

func (a *App) writeUser(w http.ResponseWriter, r *http.Request, id string, role domain.UserRole) {
	u, err := a.Donations.User(r.Context(), id, role)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, newUserView(*u))
}

func (a *App) DonorsList(w http.ResponseWriter, r *http.Request) {
	users, err := a.Donations.AllDonors(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, listResponse[userView]{Items: newUserViews(users)})
}

func (a *App) RecipientsList(w http.ResponseWriter, r *http.Request) {
	users, err := a.Donations.AllRecipients(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, listResponse[userView]{Items: newUserViews(users)})
}

func (a *App) DonorSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := a.Donations.DonorSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, newDonorSummaryView(*sum, middleware.LocaleFromContext(r.Context())))
}

func (a *App) RecipientSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := a.Donations.RecipientSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, newRecipientSummaryView(*sum, middleware.LocaleFromContext(r.Context())))
}
