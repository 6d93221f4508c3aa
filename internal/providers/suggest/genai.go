package suggest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type GenAIOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the SDK endpoint root, without the API version.
	BaseURL    string
	HTTPClient *http.Client
}

// GenAIGenerator produces suggestions through the official Gemini SDK.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

func NewGenAIGenerator(ctx context.Context, opts GenAIOptions) (*GenAIGenerator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("genai: %w", ErrMissingAPIKey)
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

func (g *GenAIGenerator) Name() string { return genaiProviderName }

func (g *GenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.5),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				suggestionField: {Type: genai.TypeString, Description: suggestionDescription},
			},
			Required: []string{suggestionField},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildInstruction(req)), config)
	if err != nil {
		return "", fail(genaiProviderName, reasonHTTPRequest, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fail(genaiProviderName, reasonEmptyResponse, nil)
	}
	suggestion, err := parseSuggestion(text)
	if err != nil {
		return "", fail(genaiProviderName, reasonParse, err)
	}
	return suggestion, nil
}
