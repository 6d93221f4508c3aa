package handlers

import (
	"net/http"

	"donortrack/internal/middleware"
	"donortrack/internal/providers/suggest"
)

type suggestionRequest struct {
	Purpose string `json:"purpose"`
}

type suggestionResponse struct {
	SuggestedText string `json:"suggested_text"`
	Provider      string `json:"provider"`
	Fallback      bool   `json:"fallback"`
}

// SuggestionsCreate drafts usage-report text for a donation purpose. Provider
// failures still answer 200 with the fallback text.
func (a *App) SuggestionsCreate(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Suggestions.Suggest(r.Context(), suggest.Request{
		Purpose: req.Purpose,
		Locale:  middleware.LocaleFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, suggestionResponse{
		SuggestedText: res.SuggestedText,
		Provider:      res.Provider,
		Fallback:      res.Fallback,
	})
}
