package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	geminiDefaultTimeout = 15 * time.Second
	geminiDefaultModel   = "gemini-2.0-flash"
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiGenerator calls the Gemini generateContent REST endpoint directly.
type GeminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64       `json:"temperature,omitempty"`
	CandidateCount   int           `json:"candidateCount,omitempty"`
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiSchema struct {
	Type        string                   `json:"type"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]*geminiSchema `json:"properties,omitempty"`
	Required    []string                 `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

var geminiSuggestionSchema = &geminiSchema{
	Type: "OBJECT",
	Properties: map[string]*geminiSchema{
		suggestionField: {Type: "STRING", Description: suggestionDescription},
	},
	Required: []string{suggestionField},
}

func NewGeminiGenerator(opts GeminiOptions) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiGenerator{apiKey: apiKey, model: model, baseURL: baseURL, client: client}, nil
}

func (g *GeminiGenerator) Name() string { return geminiProviderName }

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildInstruction(req)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.5,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
			ResponseSchema:   geminiSuggestionSchema,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fail(geminiProviderName, reasonEncode, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return "", fail(geminiProviderName, reasonHTTPRequest, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fail(geminiProviderName, reasonHTTPRequest, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fail(geminiProviderName, reasonHTTPStatus, statusError(resp))
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fail(geminiProviderName, reasonDecode, err)
	}
	text := extractGeminiText(out)
	if text == "" {
		return "", fail(geminiProviderName, reasonEmptyResponse, nil)
	}
	suggestion, err := parseSuggestion(text)
	if err != nil {
		return "", fail(geminiProviderName, reasonParse, err)
	}
	return suggestion, nil
}

func (g *GeminiGenerator) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func extractGeminiText(resp geminiResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}
