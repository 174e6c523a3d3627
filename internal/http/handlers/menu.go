package handlers

import (
	"encoding/json"
	"net/http"

	"mealcheck/internal/domain"
	"mealcheck/internal/middleware"
	"mealcheck/internal/pipeline"
	"mealcheck/internal/prompt"
)

type menuRequest struct {
	Protein    string `json:"protein"`
	Diet       string `json:"diet"`
	Strictness string `json:"strictness"`
}

type menuResponse struct {
	Menu       string `json:"menu"`
	Protein    string `json:"protein_name"`
	Disclaimer string `json:"disclaimer"`
}

// Menu generates a one-day menu suggestion. Unlimited-plan accounts only.
func (a *App) Menu(w http.ResponseWriter, r *http.Request) {
	actor, err := a.actor(r)
	if err != nil {
		a.domainError(w, err)
		return
	}
	var req menuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "payload inválido")
		return
	}

	text, err := a.Analyzer.SuggestMenu(r.Context(), pipeline.MenuInput{
		Actor:        actor,
		SessionToken: middleware.SessionTokenFromContext(r.Context()),
		Protein:      domain.Protein(req.Protein),
		Diet:         domain.Diet(req.Diet),
		Strictness:   domain.Strictness(req.Strictness),
		Country:      middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}

	a.json(w, http.StatusOK, menuResponse{
		Menu:       text,
		Protein:    prompt.ProteinName(domain.Protein(req.Protein)),
		Disclaimer: prompt.Disclaimer,
	})
}
