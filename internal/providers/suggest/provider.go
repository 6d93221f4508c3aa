package suggest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProviderConfig selects and configures a Generator.
type ProviderConfig struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAIOrg     string
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// NewGenerator builds the generator named by cfg.Provider. It returns a nil
// generator for "static", and ErrMissingAPIKey when the selected provider has
// no credential; callers then run the gateway without a generator.
func NewGenerator(ctx context.Context, cfg ProviderConfig) (Generator, error) {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = geminiDefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", geminiProviderName:
		gen, err := NewGeminiGenerator(GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: client,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	case genaiProviderName:
		// The SDK appends its own API version to the root URL.
		base := strings.TrimSuffix(strings.TrimRight(cfg.GeminiBaseURL, "/"), "/v1beta")
		gen, err := NewGenAIGenerator(ctx, GenAIOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    base,
			HTTPClient: client,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	case openAIProviderName:
		gen, err := NewOpenAIGenerator(OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   client,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	case staticProviderName, "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported prompt provider %q", cfg.Provider)
	}
}
