package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"donortrack/internal/infra"
	"donortrack/internal/providers/suggest"
)

const (
	exitOK       = 0
	exitConfig   = 1
	exitUsage    = 2
	exitFallback = 3
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one suggestion and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitConfig
	}

	var (
		providerFlag string
		keyFlag      string
		modelFlag    string
		purposeFlag  string
		localeFlag   string
		timeoutFlag  time.Duration
	)
	flags := flag.NewFlagSet("suggest", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&providerFlag, "provider", cfg.PromptProvider, "Suggestion provider (gemini, genai, openai or static)")
	flags.StringVar(&keyFlag, "key", "", "API key for the selected provider (falls back to environment)")
	flags.StringVar(&modelFlag, "model", "", "Model override for the selected provider")
	flags.StringVar(&purposeFlag, "purpose", "", "Donation purpose to draft a usage report for")
	flags.StringVar(&localeFlag, "locale", cfg.DefaultLocale, "Locale of the suggestion")
	flags.DurationVar(&timeoutFlag, "timeout", cfg.ProviderTimeout, "Provider request timeout")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	purpose := strings.TrimSpace(purposeFlag)
	if purpose == "" {
		purpose = strings.TrimSpace(strings.Join(flags.Args(), " "))
	}
	if purpose == "" {
		fmt.Fprintln(stderr, "a purpose is required via -purpose or arguments")
		return exitUsage
	}

	provider := strings.ToLower(strings.TrimSpace(providerFlag))
	pc := suggest.ProviderConfig{
		Provider:      provider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIOrg:     cfg.OpenAIOrg,
		Timeout:       timeoutFlag,
	}
	if key := strings.TrimSpace(keyFlag); key != "" {
		pc.GeminiAPIKey, pc.OpenAIAPIKey = key, key
	}
	if model := strings.TrimSpace(modelFlag); model != "" {
		pc.GeminiModel, pc.OpenAIModel = model, model
	}

	logger := infra.NewLoggerTo(stderr, "cli", cfg.LogLevel).With().Str("cmd", "suggest").Str("provider", provider).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag+5*time.Second)
	defer cancel()

	generator, err := suggest.NewGenerator(ctx, pc)
	if err != nil {
		logger.Warn().Err(err).Msg("provider unavailable")
		generator = nil
	}
	var reason string
	gateway := suggest.NewGateway(generator, suggest.Options{
		MinLength: cfg.SuggestionMinLength,
		Logger:    &logger,
		OnOutcome: func(_, outcome string) { reason = outcome },
	})

	res, err := gateway.Suggest(ctx, suggest.Request{Purpose: purpose, Locale: localeFlag})
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}
	fmt.Fprintln(stdout, res.SuggestedText)
	if res.Fallback {
		fmt.Fprintf(stderr, "fallback text returned (%s)\n", reason)
		return exitFallback
	}
	return exitOK
}
