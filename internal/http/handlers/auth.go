package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mealcheck/internal/domain"
	"mealcheck/internal/middleware"
)

const (
	tokenIssuer   = "mealcheck"
	tokenAudience = "mealcheck-clients"
	tokenTTL      = 24 * time.Hour
)

type googleVerifyRequest struct {
	IDToken string `json:"id_token"`
}

type googleVerifyResponse struct {
	Token string     `json:"token"`
	User  profileDTO `json:"user"`
}

type profileDTO struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	Locale  string `json:"locale"`
	IsPro   bool   `json:"is_pro"`
	Credits int    `json:"credits"`
}

func toProfileDTO(p *domain.Profile) profileDTO {
	return profileDTO{
		ID:      p.ID,
		Email:   p.Email,
		Name:    p.Name,
		Picture: p.Picture,
		Locale:  p.Locale,
		IsPro:   p.IsPro,
		Credits: p.Credits,
	}
}

// AuthGoogleVerify exchanges a Google ID token for a session token,
// creating the profile on first login.
func (a *App) AuthGoogleVerify(w http.ResponseWriter, r *http.Request) {
	var req googleVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "payload inválido")
		return
	}
	if req.IDToken == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id_token é obrigatório")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	claims, err := a.GoogleVerifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		a.Logger.Error().Err(err).Msg("google verify failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "token do Google inválido")
		return
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	locale, _ := claims["locale"].(string)
	if locale == "" {
		locale = middleware.LocaleFromContext(r.Context())
	}

	profile, err := a.Profiles.UpsertByGoogleSub(r.Context(), &domain.Profile{
		GoogleSub: sub,
		Email:     email,
		Name:      name,
		Picture:   picture,
		Locale:    locale,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("upsert profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "não foi possível salvar o perfil")
		return
	}

	plan := "free"
	if profile.IsPro {
		plan = "pro"
	}
	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      profile.ID,
		Plan:     plan,
		Locale:   profile.Locale,
		Exp:      time.Now().Add(tokenTTL).Unix(),
		Issuer:   tokenIssuer,
		Audience: tokenAudience,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "não foi possível criar a sessão")
		return
	}

	a.json(w, http.StatusOK, googleVerifyResponse{Token: token, User: toProfileDTO(profile)})
}
