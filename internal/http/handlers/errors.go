package handlers

import (
	"errors"
	"net/http"

	"mealcheck/internal/domain"
)

type errorBody struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errorBody{Code: errCode, Message: message}})
}

// domainError maps a pipeline error onto the JSON envelope. User-facing
// messages are Portuguese; codes are stable machine-readable identifiers.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrLoginRequired):
		a.error(w, http.StatusUnauthorized, "login_required",
			"Você atingiu o limite gratuito de hoje. Faça login para continuar analisando.")
	case errors.Is(err, domain.ErrUpgradeRequired):
		a.json(w, http.StatusPaymentRequired, errorResponse{Error: errorBody{
			Code:        "upgrade_required",
			Message:     "Seus créditos acabaram. Assine o plano PRO para análises ilimitadas.",
			CheckoutURL: a.CheckoutURL,
		}})
	case errors.Is(err, domain.ErrNoImage):
		a.error(w, http.StatusBadRequest, "no_image", "Nenhuma imagem foi enviada.")
	case errors.Is(err, domain.ErrImageTooLarge):
		a.error(w, http.StatusRequestEntityTooLarge, "image_too_large", "A imagem é grande demais. Envie um arquivo de até 5MB.")
	case errors.Is(err, domain.ErrInvalidDiet):
		a.error(w, http.StatusBadRequest, "invalid_diet", "Dieta desconhecida.")
	case errors.Is(err, domain.ErrInvalidStrictness):
		a.error(w, http.StatusBadRequest, "invalid_strictness", "Nível de rigor inválido para a dieta escolhida.")
	case errors.Is(err, domain.ErrInvalidProtein):
		a.error(w, http.StatusBadRequest, "invalid_protein", "Proteína principal inválida.")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "Sessão inválida ou expirada.")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "Registro não encontrado.")
	case errors.Is(err, domain.ErrCredentialMissing):
		a.error(w, http.StatusUnauthorized, "credential_missing",
			"Nenhuma chave de API configurada. Abra as configurações e informe sua chave para continuar.")
	case errors.Is(err, domain.ErrProviderFailure), errors.Is(err, domain.ErrMalformedResponse):
		a.error(w, http.StatusBadGateway, "analysis_unavailable", "Não foi possível analisar agora. Tente novamente em instantes.")
	default:
		a.error(w, http.StatusInternalServerError, "internal", "Erro interno.")
	}
}
