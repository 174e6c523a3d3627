// Package remote implements the server-proxied inference path: an
// authenticated call to the analysis edge function, which holds the provider
// key and enforces quota on its side.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mealcheck/internal/domain"
	"mealcheck/internal/provider"
	"mealcheck/internal/provider/gemini"
)

const (
	actionAnalyzeMeal  = "analyze_meal"
	actionGenerateMenu = "generate_menu"
)

// Options configures the remote client. SessionToken is the bearer
// credential of the active session; clients are cheap and constructed per
// request so the token is never cached beyond one call.
type Options struct {
	FunctionURL  string
	AnonKey      string
	SessionToken string
	HTTPClient   *http.Client
	Timeout      time.Duration
}

type Client struct {
	functionURL  string
	anonKey      string
	sessionToken string
	httpClient   *http.Client
}

func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		functionURL:  strings.TrimSpace(opts.FunctionURL),
		anonKey:      strings.TrimSpace(opts.AnonKey),
		sessionToken: strings.TrimSpace(opts.SessionToken),
		httpClient:   client,
	}
}

type analyzeEnvelope struct {
	Action     string            `json:"action"`
	Image      string            `json:"image"`
	Diet       domain.Diet       `json:"diet"`
	Strictness domain.Strictness `json:"strictness"`
}

type menuEnvelope struct {
	Action     string            `json:"action"`
	Protein    domain.Protein    `json:"protein"`
	Diet       domain.Diet       `json:"diet"`
	Strictness domain.Strictness `json:"strictness"`
}

type menuResponse struct {
	Result string `json:"result"`
}

// AnalyzeMeal posts the prepared image over the authenticated channel and
// parses the structured verdict from the response body.
func (c *Client) AnalyzeMeal(ctx context.Context, req provider.AnalyzeRequest) (*domain.AnalysisResult, error) {
	if c.sessionToken == "" {
		return nil, fmt.Errorf("%w: sessão expirada, faça login novamente", domain.ErrLoginRequired)
	}
	body, err := c.post(ctx, analyzeEnvelope{
		Action:     actionAnalyzeMeal,
		Image:      req.ImageBase64,
		Diet:       req.Diet,
		Strictness: req.Strictness,
	})
	if err != nil {
		return nil, err
	}
	result, err := gemini.ParseAnalysis(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: o servidor respondeu com um formato inesperado", domain.ErrMalformedResponse)
	}
	return result, nil
}

// SuggestMenu posts the menu request and unwraps the free-text result.
func (c *Client) SuggestMenu(ctx context.Context, req provider.MenuRequest) (string, error) {
	if c.sessionToken == "" {
		return "", fmt.Errorf("%w: faça login para usar o assistente de cardápio", domain.ErrLoginRequired)
	}
	body, err := c.post(ctx, menuEnvelope{
		Action:     actionGenerateMenu,
		Protein:    req.Protein,
		Diet:       req.Diet,
		Strictness: req.Strictness,
	})
	if err != nil {
		return "", err
	}
	var out menuResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if strings.TrimSpace(out.Result) == "" {
		return "", fmt.Errorf("%w: empty result", domain.ErrMalformedResponse)
	}
	return out.Result, nil
}

// post performs the single attempt against the edge function.
func (c *Client) post(ctx context.Context, payload any) ([]byte, error) {
	if c.functionURL == "" {
		return nil, fmt.Errorf("%w: function url not configured", domain.ErrProviderFailure)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.functionURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrProviderFailure, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: serviço de análise indisponível (status %d)", domain.ErrProviderFailure, resp.StatusCode)
	}
	return data, nil
}

var _ provider.Inference = (*Client)(nil)
