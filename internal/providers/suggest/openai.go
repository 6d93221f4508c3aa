package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	openAIDefaultTimeout = 15 * time.Second
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

var openAIModelAliases = map[string]string{
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt-3.5":                "gpt-3.5-turbo",
	"gpt35-turbo":            "gpt-3.5-turbo",
	"gpt-35-turbo":           "gpt-3.5-turbo",
}

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
}

// OpenAIGenerator asks the chat completions API for a JSON object answer.
type OpenAIGenerator struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIGenerator{
		apiKey:       apiKey,
		model:        normalizeOpenAIModel(opts.Model),
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
	}, nil
}

func (o *OpenAIGenerator) Name() string { return openAIProviderName }

func (o *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	payload := openAIChatRequest{
		Model:          o.model,
		Temperature:    0.5,
		ResponseFormat: &openAIFormat{Type: "json_object"},
		Messages: []openAIMessage{
			{Role: "system", Content: "You reply with a single JSON object and nothing else."},
			{Role: "user", Content: buildInstruction(req)},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fail(openAIProviderName, reasonEncode, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fail(openAIProviderName, reasonHTTPRequest, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fail(openAIProviderName, reasonHTTPRequest, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fail(openAIProviderName, reasonHTTPStatus, statusError(resp))
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fail(openAIProviderName, reasonDecode, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fail(openAIProviderName, reasonEmptyResponse, nil)
	}
	suggestion, err := parseSuggestion(out.Choices[0].Message.Content)
	if err != nil {
		return "", fail(openAIProviderName, reasonParse, err)
	}
	return suggestion, nil
}

func normalizeOpenAIModel(model string) string {
	key := strings.ToLower(strings.TrimSpace(model))
	if key == "" {
		return defaultOpenAIModel
	}
	if canonical, ok := openAIModelAliases[key]; ok {
		return canonical
	}
	return key
}
