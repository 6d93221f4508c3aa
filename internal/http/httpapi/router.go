package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"donortrack/internal/http/handlers"
	"donortrack/internal/infra"
	"donortrack/internal/middleware"
)

// Options configures the cross-cutting middleware of the router.
type Options struct {
	Logger               infra.Logger
	Metrics              *infra.Metrics
	CORSAllowedOrigins   []string
	DefaultLocale        string
	CountryLookup        middleware.CountryLookup
	SuggestionsPerMinute int
}

// middlewareChain orders the cross-cutting middleware. Recoverer sits inside
// Logger and Metrics so a recovered panic is still logged and counted as 500.
func middlewareChain(opts Options) []func(stdhttp.Handler) stdhttp.Handler {
	chain := []func(stdhttp.Handler) stdhttp.Handler{
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
	}
	if opts.Metrics != nil {
		chain = append(chain, middleware.Metrics(opts.Metrics))
	}
	return append(chain,
		chimw.Recoverer,
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChain(opts)...)

	if opts.Metrics != nil {
		r.Method(stdhttp.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Get("/me/donor", app.MeDonor)
		r.Get("/me/recipient", app.MeRecipient)

		r.Route("/donors", func(r chi.Router) {
			r.Get("/", app.DonorsList)
			r.Get("/{id}/donations", app.DonorDonations)
			r.Get("/{id}/summary", app.DonorSummary)
		})

		r.Route("/recipients", func(r chi.Router) {
			r.Get("/", app.RecipientsList)
			r.Get("/{id}/donations", app.RecipientDonations)
			r.Get("/{id}/summary", app.RecipientSummary)
		})

		r.Route("/donations", func(r chi.Router) {
			r.Post("/", app.DonationsCreate)
			r.Get("/{id}", app.DonationGet)
			r.Put("/{id}/report", app.DonationReport)
		})

		r.With(middleware.RateLimit(opts.SuggestionsPerMinute)).Post("/suggestions", app.SuggestionsCreate)
	})

	return r
}
