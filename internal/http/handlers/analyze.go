package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"mealcheck/internal/domain"
	"mealcheck/internal/middleware"
	"mealcheck/internal/pipeline"
	"mealcheck/internal/prompt"
)

// uploads larger than this are rejected before decoding
const maxUploadBytes = 16 << 20

type analyzeJSONRequest struct {
	ImageBase64 string `json:"image_base64"`
	Diet        string `json:"diet"`
	Strictness  string `json:"strictness"`
}

type analyzeResponse struct {
	Result     *domain.AnalysisResult `json:"result"`
	Disclaimer string                 `json:"disclaimer"`
	Remaining  *int                   `json:"remaining,omitempty"`
	Unlimited  bool                   `json:"unlimited"`
}

// Analyze runs one meal photo through the pipeline. The photo arrives either
// as a multipart file field named "image" or as base64 in a JSON body.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	actor, err := a.actor(r)
	if err != nil {
		a.domainError(w, err)
		return
	}

	image, diet, strictness, err := a.parseAnalyzeRequest(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "payload inválido")
		return
	}

	result, err := a.Analyzer.Analyze(r.Context(), pipeline.AnalyzeInput{
		Actor:        actor,
		SessionToken: middleware.SessionTokenFromContext(r.Context()),
		Image:        image,
		Diet:         domain.Diet(diet),
		Strictness:   domain.Strictness(strictness),
		Country:      middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}

	resp := analyzeResponse{Result: result, Disclaimer: prompt.Disclaimer}
	remaining, unlimited := a.Credits.Remaining(r.Context(), actor)
	if unlimited {
		resp.Unlimited = true
	} else {
		resp.Remaining = &remaining
	}
	a.json(w, http.StatusOK, resp)
}

func (a *App) parseAnalyzeRequest(r *http.Request) (image []byte, diet, strictness string, err error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err = r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", "", err
		}
		diet = r.FormValue("diet")
		strictness = r.FormValue("strictness")
		file, _, ferr := r.FormFile("image")
		if ferr != nil {
			// the pipeline reports the missing image in order
			return nil, diet, strictness, nil
		}
		defer file.Close()
		image, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
		return image, diet, strictness, err
	}

	var req analyzeJSONRequest
	if err = json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		return nil, "", "", err
	}
	if req.ImageBase64 != "" {
		// tolerate a data-URI prefix from older clients
		raw := req.ImageBase64
		if idx := strings.Index(raw, ","); idx >= 0 && strings.HasPrefix(raw, "data:") {
			raw = raw[idx+1:]
		}
		image, err = base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, "", "", err
		}
	}
	return image, req.Diet, req.Strictness, nil
}
