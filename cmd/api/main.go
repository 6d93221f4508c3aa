package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"donortrack/internal/adapter/repo"
	"donortrack/internal/donation"
	"donortrack/internal/http/handlers"
	httpapi "donortrack/internal/http/httpapi"
	"donortrack/internal/infra"
	"donortrack/internal/infra/geoip"
	"donortrack/internal/middleware"
	"donortrack/internal/providers/suggest"
	"donortrack/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLoggerTo(os.Stdout, cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repo.NewStore()
	if cfg.SeedDemoData || cfg.SeedFile != "" {
		res, err := seed.Load(ctx, store, cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("load seed data: %w", err)
		}
		logger.Info().Int("users", res.Users).Int("donations", res.Donations).Str("file", cfg.SeedFile).Msg("seed data loaded")
	}

	service := donation.NewService(store, donation.WithLogger(logger.With().Str("component", "donation").Logger()))
	metrics := infra.NewMetrics()

	generator, err := suggest.NewGenerator(ctx, suggest.ProviderConfig{
		Provider:      cfg.PromptProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIOrg:     cfg.OpenAIOrg,
		Timeout:       cfg.ProviderTimeout,
	})
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.PromptProvider).Msg("suggestion provider unavailable, serving fallback text")
		generator = nil
	}
	suggestLogger := logger.With().Str("component", "suggest").Logger()
	gateway := suggest.NewGateway(generator, suggest.Options{
		MinLength: cfg.SuggestionMinLength,
		Logger:    &suggestLogger,
		OnOutcome: metrics.RecordSuggestion,
	})

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip database unavailable")
	}
	defer func() {
		_ = resolver.Close()
	}()

	app := handlers.NewApp(service, gateway, handlers.Identity{
		DonorID:     cfg.CurrentDonorID,
		RecipientID: cfg.CurrentRecipientID,
	}, &logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:               logger,
		Metrics:              metrics,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		DefaultLocale:        cfg.DefaultLocale,
		CountryLookup:        middleware.CountryLookup(resolver.Lookup()),
		SuggestionsPerMinute: cfg.RateLimitPerMin,
	})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Str("provider", gateway.Provider()).Msg("API listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
