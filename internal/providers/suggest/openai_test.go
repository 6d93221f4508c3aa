package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"donortrack/internal/domain"
)

func TestOpenAIGeneratorParsesJSONObject(t *testing.T) {
	var captured openAIChatRequest
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey:       "sk-test",
		Model:        "gpt4o-mini",
		BaseURL:      "https://openai.test/v1",
		Organization: "org-1",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.String() != "https://openai.test/v1/chat/completions" {
				t.Errorf("url = %s", r.URL)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Errorf("Authorization = %q", got)
			}
			if got := r.Header.Get("OpenAI-Organization"); got != "org-1" {
				t.Errorf("OpenAI-Organization = %q", got)
			}
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"{\"suggestedText\":\"Funded vaccinations for 10 rescued cats.\"}"}}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator returned error: %v", err)
	}
	got, err := gen.Generate(context.Background(), Request{Purpose: "Animal shelter vaccination drive"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "Funded vaccinations for 10 rescued cats." {
		t.Fatalf("Generate = %q", got)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q, want alias resolved to gpt-4o-mini", captured.Model)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("response_format = %+v", captured.ResponseFormat)
	}
}

func TestOpenAIGeneratorEmptyChoices(t *testing.T) {
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey: "sk-test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator returned error: %v", err)
	}
	_, err = gen.Generate(context.Background(), Request{Purpose: "Warm meals for the week"})
	if !errors.Is(err, domain.ErrProviderFailure) || FailureReason(err) != reasonEmptyResponse {
		t.Fatalf("error = %v, want empty_response provider failure", err)
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	tests := map[string]string{
		"":             defaultOpenAIModel,
		"GPT4OMINI":    "gpt-4o-mini",
		"gpt-35-turbo": "gpt-3.5-turbo",
		"gpt-4.1":      "gpt-4.1",
	}
	for in, want := range tests {
		if got := normalizeOpenAIModel(in); got != want {
			t.Errorf("normalizeOpenAIModel(%q) = %q, want %q", in, got, want)
		}
	}
}
