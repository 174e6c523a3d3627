package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status       string `json:"status"`
	Unreconciled int    `json:"unreconciled_24h"`
}

// Health reports liveness plus the recent count of analyses whose credit
// charge failed, so a silently broken settlement path shows up in monitoring.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if a.Usage != nil {
		if n, err := a.Usage.UnreconciledLast24h(r.Context()); err == nil {
			resp.Unreconciled = n
		} else {
			a.Logger.Warn().Err(err).Msg("unreconciled count failed")
		}
	}
	a.json(w, http.StatusOK, resp)
}
