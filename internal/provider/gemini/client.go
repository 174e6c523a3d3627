// Package gemini implements the direct-credentialed inference path: the
// caller's own API key, a generateContent call, no server-side quota.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mealcheck/internal/domain"
	"mealcheck/internal/prompt"
	"mealcheck/internal/provider"
)

// Options controls how the client is configured. The API key is explicit;
// there is no ambient client state.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a timeout will be created.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
	}
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// AnalyzeMeal sends the prompt plus the prepared JPEG payload and parses the
// schema-constrained JSON verdict.
func (c *Client) AnalyzeMeal(ctx context.Context, req provider.AnalyzeRequest) (*domain.AnalysisResult, error) {
	if c.apiKey == "" {
		return nil, domain.ErrCredentialMissing
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		return nil, domain.ErrNoImage
	}
	text, err := prompt.Analysis(req.Diet, req.Strictness)
	if err != nil {
		return nil, err
	}

	payload := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: text},
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: req.ImageBase64}},
			},
		}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	}

	raw, err := c.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}
	return ParseAnalysis(raw)
}

// SuggestMenu sends the menu prompt and returns the plain-text suggestion.
func (c *Client) SuggestMenu(ctx context.Context, req provider.MenuRequest) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrCredentialMissing
	}
	text, err := prompt.Menu(req.Protein, req.Diet, req.Strictness)
	if err != nil {
		return "", err
	}

	payload := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: text}},
		}},
	}

	raw, err := c.invoke(ctx, payload)
	if err != nil {
		return "", err
	}
	suggestion := strings.TrimSpace(raw)
	if suggestion == "" {
		return "", fmt.Errorf("%w: empty suggestion", domain.ErrMalformedResponse)
	}
	return suggestion, nil
}

// invoke performs one generateContent call and returns the first non-empty
// candidate text. Exactly one attempt is made.
func (c *Client) invoke(ctx context.Context, payload generateContentRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%w: gemini status %d: %s", domain.ErrProviderFailure, resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%w: gemini status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrMalformedResponse, err)
	}
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no candidate text", domain.ErrMalformedResponse)
}

// ParseAnalysis turns the model's JSON text into an AnalysisResult. Code
// fences and surrounding prose are tolerated; anything that does not resolve
// to the expected shape is a malformed-response failure.
func ParseAnalysis(raw string) (*domain.AnalysisResult, error) {
	fragment := extractJSONFragment(raw)
	if fragment == "" {
		return nil, fmt.Errorf("%w: empty body", domain.ErrMalformedResponse)
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(fragment), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if !result.Compatibility.Valid() {
		return nil, fmt.Errorf("%w: compatibility %q", domain.ErrMalformedResponse, result.Compatibility)
	}
	return &result, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var _ provider.Inference = (*Client)(nil)
