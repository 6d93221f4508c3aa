package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"
	genaiProviderName  = "genai"
	openAIProviderName = "openai"

	suggestionField       = "suggestedText"
	suggestionDescription = "Suggested details of purchases made with the donation, formatted as a concise summary."
)

type suggestionPayload struct {
	SuggestedText string `json:"suggestedText"`
}

func buildInstruction(req Request) string {
	sb := &strings.Builder{}
	sb.WriteString("You are an AI assistant helping recipients of donations to quickly report how the funds were used. ")
	sb.WriteString("Based on the description of the donation and its intended purpose, suggest specific details of purchases that could have been made. ")
	sb.WriteString("Respond strictly with JSON matching this schema: ")
	fmt.Fprintf(sb, `{%q:string}`, suggestionField)
	sb.WriteString(".")
	if name := languageName(req.Locale); name != "" {
		fmt.Fprintf(sb, " Write the suggestion in %s.", name)
	}
	fmt.Fprintf(sb, "\n\nDonation Description: %s\n\nSuggested Purchase Details:", req.Purpose)
	return sb.String()
}

// languageName returns the English name of a non-English locale, or "" when
// the locale is empty, English or unparseable.
func languageName(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	if base, _ := tag.Base(); base.String() == "en" {
		return ""
	}
	return display.English.Languages().Name(tag)
}

func parseSuggestion(raw string) (string, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return "", errors.New("empty payload")
	}
	var payload suggestionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.SuggestedText) == "" {
		return "", fmt.Errorf("payload has no %s", suggestionField)
	}
	return payload.SuggestedText, nil
}

func extractJSONFragment(raw string) string {
	text := trimCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return ""
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
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
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
