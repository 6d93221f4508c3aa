// Package suggest pre-fills usage-report text from a donation's purpose with
// a generative-text provider. Provider failures never reach the caller: the
// gateway answers with FallbackText instead.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"donortrack/internal/domain"
	"donortrack/internal/infra"
)

const (
	// DefaultMinLength is the shortest purpose, in characters after trimming,
	// the gateway will send to a provider.
	DefaultMinLength = 10

	// FallbackText is returned whenever the provider cannot produce a suggestion.
	FallbackText = "We could not generate a suggestion at this time. Please write the details manually."

	outcomeGenerated = "generated"
)

// Request is what a Generator needs to build its prompt.
type Request struct {
	Purpose string
	Locale  string
}

// Generator is an external text-generation capability. Implementations return
// errors wrapping domain.ErrProviderFailure.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Suggestion is the gateway's answer.
type Suggestion struct {
	SuggestedText string
	Provider      string
	Fallback      bool
}

// Options configures a Gateway.
type Options struct {
	MinLength int
	Logger    *infra.Logger
	// OnOutcome observes every call that passed validation with the provider
	// name and either "generated" or the fallback reason.
	OnOutcome func(provider, outcome string)
}

// Gateway wraps a Generator with input validation and fallback handling.
type Gateway struct {
	generator Generator
	minLength int
	logger    zerolog.Logger
	onOutcome func(provider, outcome string)
}

// NewGateway creates a gateway. A nil generator is allowed: every call then
// degrades to the fallback text.
func NewGateway(generator Generator, opts Options) *Gateway {
	g := &Gateway{
		generator: generator,
		minLength: opts.MinLength,
		logger:    zerolog.Nop(),
		onOutcome: opts.OnOutcome,
	}
	if g.minLength <= 0 {
		g.minLength = DefaultMinLength
	}
	if opts.Logger != nil {
		g.logger = *opts.Logger
	}
	return g
}

// Provider names the configured generator.
func (g *Gateway) Provider() string {
	if g.generator == nil {
		return staticProviderName
	}
	return g.generator.Name()
}

// Suggest returns suggested usage-report text for purpose. The only error it
// returns is a *domain.ValidationError for a purpose shorter than the
// configured minimum; that check happens before any provider call.
func (g *Gateway) Suggest(ctx context.Context, req Request) (Suggestion, error) {
	purpose := strings.TrimSpace(req.Purpose)
	if utf8.RuneCountInString(purpose) < g.minLength {
		return Suggestion{}, &domain.ValidationError{
			Field:  "purpose",
			Reason: fmt.Sprintf("must be at least %d characters", g.minLength),
		}
	}
	if g.generator == nil {
		return g.fallback(staticProviderName, reasonUnavailable, nil), nil
	}

	name := g.generator.Name()
	text, err := g.generator.Generate(ctx, Request{Purpose: purpose, Locale: req.Locale})
	if err != nil {
		return g.fallback(name, FailureReason(err), err), nil
	}
	if strings.TrimSpace(text) == "" {
		return g.fallback(name, reasonEmptyResponse, nil), nil
	}

	g.observe(name, outcomeGenerated)
	return Suggestion{SuggestedText: text, Provider: name}, nil
}

func (g *Gateway) fallback(provider, reason string, err error) Suggestion {
	g.logger.Warn().
		Err(err).
		Str("provider", provider).
		Str("reason", reason).
		Msg("usage suggestion unavailable, returning fallback text")
	g.observe(provider, reason)
	return Suggestion{SuggestedText: FallbackText, Provider: staticProviderName, Fallback: true}
}

func (g *Gateway) observe(provider, outcome string) {
	if g.onOutcome != nil {
		g.onOutcome(provider, outcome)
	}
}
