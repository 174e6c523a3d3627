package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealcheck/internal/domain"
	"mealcheck/internal/provider"
)

const sampleAnalysis = `{
  "compatibilidade": "parcial",
  "macros_estimados": {"proteina": 42, "gordura": 30, "gordura_saturada": 11, "carboidratos": 8},
  "itens_detectados": [
    {"item": "Bife grelhado", "compativel": true},
    {"item": "Arroz branco", "compativel": false}
  ],
  "ajustes_recomendados": ["Remova o arroz"],
  "explicacao": "O bife é compatível, o arroz não."
}`

func TestAnalyzeMealSendsAuthenticatedEnvelope(t *testing.T) {
	var gotAuth, gotAnon string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAnon = r.Header.Get("apikey")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(sampleAnalysis))
	}))
	defer srv.Close()

	client := NewClient(Options{
		FunctionURL:  srv.URL,
		AnonKey:      "anon-key",
		SessionToken: "session-token",
	})
	result, err := client.AnalyzeMeal(context.Background(), provider.AnalyzeRequest{
		ImageBase64: "aGVsbG8=",
		Diet:        domain.DietKetogenic,
		Strictness:  domain.StrictnessModerate,
	})
	if err != nil {
		t.Fatalf("AnalyzeMeal: %v", err)
	}
	if gotAuth != "Bearer session-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAnon != "anon-key" {
		t.Errorf("apikey header = %q", gotAnon)
	}
	if gotBody["action"] != "analyze_meal" {
		t.Errorf("action = %v", gotBody["action"])
	}
	if gotBody["image"] != "aGVsbG8=" {
		t.Errorf("image = %v", gotBody["image"])
	}
	if result.Compatibility != domain.CompatibilityPartial {
		t.Errorf("compatibility = %q", result.Compatibility)
	}
	if len(result.DetectedItems) != 2 || result.DetectedItems[1].Compatible {
		t.Errorf("detected items = %+v", result.DetectedItems)
	}
}

func TestAnalyzeMealWithoutSessionToken(t *testing.T) {
	client := NewClient(Options{FunctionURL: "http://unused"})
	_, err := client.AnalyzeMeal(context.Background(), provider.AnalyzeRequest{})
	if !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("err = %v, want ErrLoginRequired", err)
	}
}

func TestAnalyzeMealServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Options{FunctionURL: srv.URL, SessionToken: "tok"})
	_, err := client.AnalyzeMeal(context.Background(), provider.AnalyzeRequest{ImageBase64: "x"})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
}

func TestAnalyzeMealMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("o modelo está indisponível no momento"))
	}))
	defer srv.Close()

	client := NewClient(Options{FunctionURL: srv.URL, SessionToken: "tok"})
	_, err := client.AnalyzeMeal(context.Background(), provider.AnalyzeRequest{ImageBase64: "x"})
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestSuggestMenuUnwrapsResult(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(menuResponse{Result: "Café da manhã: ovos mexidos."})
	}))
	defer srv.Close()

	client := NewClient(Options{FunctionURL: srv.URL, SessionToken: "tok"})
	text, err := client.SuggestMenu(context.Background(), provider.MenuRequest{
		Protein:    domain.ProteinChicken,
		Diet:       domain.DietCarnivore,
		Strictness: domain.StrictnessStrict,
	})
	if err != nil {
		t.Fatalf("SuggestMenu: %v", err)
	}
	if gotBody["action"] != "generate_menu" {
		t.Errorf("action = %v", gotBody["action"])
	}
	if gotBody["protein"] != "frango" {
		t.Errorf("protein = %v", gotBody["protein"])
	}
	if text != "Café da manhã: ovos mexidos." {
		t.Errorf("text = %q", text)
	}
}

func TestSuggestMenuEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "  "}`))
	}))
	defer srv.Close()

	client := NewClient(Options{FunctionURL: srv.URL, SessionToken: "tok"})
	_, err := client.SuggestMenu(context.Background(), provider.MenuRequest{})
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}
