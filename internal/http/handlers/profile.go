package handlers

import (
	"net/http"
)

// Me returns the profile behind the current session.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "sessão ausente")
		return
	}
	profile, err := a.Profiles.GetByID(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProfileDTO(profile))
}
