// Package handlers holds the HTTP endpoints. Handlers stay thin: they parse
// the request, resolve the acting identity and delegate to the pipeline,
// translating domain errors into the JSON envelope at the boundary.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"mealcheck/internal/credits"
	"mealcheck/internal/domain"
	"mealcheck/internal/middleware"
	"mealcheck/internal/pipeline"
)

// GoogleVerifier validates a Google ID token and returns its claims.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (map[string]any, error)
}

// UnreconciledCounter reports how many recent analyses failed credit
// settlement.
type UnreconciledCounter interface {
	UnreconciledLast24h(ctx context.Context) (int, error)
}

type App struct {
	Logger         zerolog.Logger
	JWTSecret      string
	CheckoutURL    string
	GoogleVerifier GoogleVerifier
	Profiles       domain.ProfileStore
	Analyzer       *pipeline.Analyzer
	Credits        *credits.Reconciler
	Usage          UnreconciledCounter
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// actor resolves who is making the request: the stored profile for a
// verified session, otherwise a guest keyed by the client-supplied id or,
// failing that, the client IP.
func (a *App) actor(r *http.Request) (credits.Actor, error) {
	userID := a.currentUserID(r)
	if userID == "" {
		return credits.Actor{GuestID: guestID(r)}, nil
	}
	profile, err := a.Profiles.GetByID(r.Context(), userID)
	if err != nil {
		return credits.Actor{}, err
	}
	return credits.Actor{Profile: profile}, nil
}

func guestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Guest-ID")); id != "" {
		return id
	}
	return middleware.ClientIP(r)
}
