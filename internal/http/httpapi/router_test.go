package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"donortrack/internal/adapter/repo"
	"donortrack/internal/donation"
	"donortrack/internal/http/handlers"
	"donortrack/internal/infra"
	"donortrack/internal/providers/suggest"
	"donortrack/internal/seed"
)

func TestMain(m *testing.M) {
	// go.opencensus.io, pulled in by the genai SDK, starts its stats worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Name() string { return "stub" }

func (s stubGenerator) Generate(context.Context, suggest.Request) (string, error) {
	return s.text, s.err
}

type testEnv struct {
	handler http.Handler
	metrics *infra.Metrics
}

func newTestEnv(t *testing.T, gen suggest.Generator, perMinute int) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := repo.NewStore()
	_, err := seed.Load(ctx, store, "")
	require.NoError(t, err)

	today := time.Date(2024, 8, 1, 9, 30, 0, 0, time.UTC)
	svc := donation.NewService(store, donation.WithClock(func() time.Time { return today }))
	metrics := infra.NewMetrics()
	gw := suggest.NewGateway(gen, suggest.Options{OnOutcome: metrics.RecordSuggestion})
	app := handlers.NewApp(svc, gw, handlers.Identity{DonorID: "donor-1", RecipientID: "recipient-1"}, nil)

	return &testEnv{
		handler: NewRouter(app, Options{
			Logger:               zerolog.Nop(),
			Metrics:              metrics,
			CORSAllowedOrigins:   []string{"http://localhost:3000"},
			DefaultLocale:        "en",
			SuggestionsPerMinute: perMinute,
		}),
		metrics: metrics,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type donationJSON struct {
	ID            string  `json:"id"`
	DonorID       string  `json:"donor_id"`
	DonorName     string  `json:"donor_name"`
	RecipientID   string  `json:"recipient_id"`
	RecipientName string  `json:"recipient_name"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Date          string  `json:"date"`
	Purpose       string  `json:"purpose"`
	Status        string  `json:"status"`
	UsageDetails  string  `json:"usage_details"`
}

type errorJSON struct {
	Error struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

type itemsJSON[T any] struct {
	Items []T `json:"items"`
}

func TestDonationLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv(t, nil, 30)

	rr := env.do(t, http.MethodGet, "/v1/me/donor", "")
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[map[string]string](t, rr)
	require.Equal(t, "Adarsh KN", me["name"])
	require.Equal(t, "donor", me["role"])

	rr = env.do(t, http.MethodPost, "/v1/donations", `{"recipient_id":"recipient-1","amount":1000,"purpose":"Food supplies"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[donationJSON](t, rr)
	require.Equal(t, "donation-5", created.ID)
	require.Equal(t, "donor-1", created.DonorID)
	require.Equal(t, "Priya Sharma", created.RecipientName)
	require.Equal(t, "Pending", created.Status)
	require.Equal(t, "2024-08-01", created.Date)
	require.Equal(t, "Rs. 1,000.00", created.AmountDisplay)
	require.Equal(t, "/v1/donations/donation-5", rr.Header().Get("Location"))

	rr = env.do(t, http.MethodGet, "/v1/recipients/recipient-1/donations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[itemsJSON[donationJSON]](t, rr)
	require.Len(t, list.Items, 4)
	require.Equal(t, "donation-5", list.Items[0].ID)

	rr = env.do(t, http.MethodPut, "/v1/donations/donation-5/report", `{"usage_details":"Bought rice and lentils for 30 families."}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	reported := decode[donationJSON](t, rr)
	require.Equal(t, "Reported", reported.Status)
	require.Equal(t, "Bought rice and lentils for 30 families.", reported.UsageDetails)

	rr = env.do(t, http.MethodGet, "/v1/recipients/recipient-1/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[map[string]any](t, rr)
	require.Equal(t, float64(33500), summary["total_received"])
	require.Equal(t, "Rs. 33,500.00", summary["total_received_display"])
	require.Equal(t, float64(4), summary["donation_count"])
	require.Equal(t, float64(1), summary["pending_reports"])
}

func TestDonorDonationsNewestFirst(t *testing.T) {
	env := newTestEnv(t, nil, 30)

	rr := env.do(t, http.MethodGet, "/v1/donors/donor-1/donations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[itemsJSON[donationJSON]](t, rr)
	var dates []string
	for _, d := range list.Items {
		dates = append(dates, d.Date)
	}
	require.Equal(t, []string{"2024-07-22", "2024-06-15", "2024-05-01"}, dates)

	rr = env.do(t, http.MethodGet, "/v1/donors/donor-9/donations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, decode[itemsJSON[donationJSON]](t, rr).Items)

	rr = env.do(t, http.MethodGet, "/v1/donors/donor-9/summary", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateDonationWithNewRecipients(t *testing.T) {
	env := newTestEnv(t, nil, 30)
	for i, wantID := range []string{"recipient-4", "recipient-5"} {
		rr := env.do(t, http.MethodPost, "/v1/donations", `{"new_recipient_name":"Hope Foundation","amount":500,"purpose":"Blankets"}`)
		require.Equal(t, http.StatusCreated, rr.Code, "request %d: %s", i, rr.Body.String())
		require.Equal(t, wantID, decode[donationJSON](t, rr).RecipientID)
	}

	rr := env.do(t, http.MethodGet, "/v1/recipients", "")
	users := decode[itemsJSON[map[string]string]](t, rr).Items
	require.Len(t, users, 5)
	require.Equal(t, "hope.foundation@example.com", users[4]["email"])
}

func TestValidationAndLookupErrors(t *testing.T) {
	env := newTestEnv(t, nil, 30)
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"zero amount", http.MethodPost, "/v1/donations", `{"recipient_id":"recipient-1","amount":0,"purpose":"x"}`, http.StatusUnprocessableEntity, "amount"},
		{"no recipient", http.MethodPost, "/v1/donations", `{"amount":10,"purpose":"x"}`, http.StatusUnprocessableEntity, "recipient_id"},
		{"blank purpose", http.MethodPost, "/v1/donations", `{"recipient_id":"recipient-1","amount":10,"purpose":"  "}`, http.StatusUnprocessableEntity, "purpose"},
		{"malformed body", http.MethodPost, "/v1/donations", `{"amount":`, http.StatusBadRequest, ""},
		{"report too short", http.MethodPut, "/v1/donations/donation-2/report", `{"usage_details":"Bought rice"}`, http.StatusUnprocessableEntity, "usage_details"},
		{"report unknown donation", http.MethodPut, "/v1/donations/donation-99/report", `{"usage_details":"Bought rice and lentils for 30 families."}`, http.StatusNotFound, ""},
		{"unknown donation", http.MethodGet, "/v1/donations/donation-99", "", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			require.Equal(t, tt.wantField, decode[errorJSON](t, rr).Error.Field)
		})
	}

	rr := env.do(t, http.MethodGet, "/v1/donations/donation-2", "")
	require.Equal(t, "Pending", decode[donationJSON](t, rr).Status)
}

func TestSuggestions(t *testing.T) {
	t.Run("generated", func(t *testing.T) {
		env := newTestEnv(t, stubGenerator{text: "Bought 20 kg of rice."}, 30)
		rr := env.do(t, http.MethodPost, "/v1/suggestions", `{"purpose":"Warm meals for the homeless"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[map[string]any](t, rr)
		require.Equal(t, "Bought 20 kg of rice.", body["suggested_text"])
		require.Equal(t, false, body["fallback"])
	})

	t.Run("provider failure falls back", func(t *testing.T) {
		env := newTestEnv(t, stubGenerator{err: errors.New("timeout")}, 30)
		rr := env.do(t, http.MethodPost, "/v1/suggestions", `{"purpose":"Warm meals for the homeless"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[map[string]any](t, rr)
		require.Equal(t, suggest.FallbackText, body["suggested_text"])
		require.Equal(t, true, body["fallback"])

		metrics := env.do(t, http.MethodGet, "/metrics", "")
		require.Contains(t, metrics.Body.String(), `usage_suggestions_total{outcome="unknown",provider="stub"} 1`)
	})

	t.Run("short purpose", func(t *testing.T) {
		env := newTestEnv(t, stubGenerator{text: "unused"}, 30)
		rr := env.do(t, http.MethodPost, "/v1/suggestions", `{"purpose":"food"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		require.Equal(t, "purpose", decode[errorJSON](t, rr).Error.Field)
	})

	t.Run("rate limited", func(t *testing.T) {
		env := newTestEnv(t, stubGenerator{text: "ok"}, 1)
		require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/v1/suggestions", `{"purpose":"Warm meals for the homeless"}`).Code)
		rr := env.do(t, http.MethodPost, "/v1/suggestions", `{"purpose":"Warm meals for the homeless"}`)
		require.Equal(t, http.StatusTooManyRequests, rr.Code)
		require.NotEmpty(t, rr.Header().Get("Retry-After"))
	})
}

func TestOperationalEndpoints(t *testing.T) {
	env := newTestEnv(t, nil, 30)

	rr := env.do(t, http.MethodGet, "/v1/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	require.Equal(t, "en", rr.Header().Get("Content-Language"))

	rr = env.do(t, http.MethodGet, "/v1/docs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "/v1/openapi.json")

	env.do(t, http.MethodGet, "/v1/donations/donation-1", "")
	rr = env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `route="/v1/donations/{id}"`)
}

func TestRecoveredPanicIsLoggedAndCounted(t *testing.T) {
	var logs strings.Builder
	metrics := infra.NewMetrics()
	r := chi.NewRouter()
	r.Use(middlewareChain(Options{Logger: zerolog.New(&logs), Metrics: metrics, DefaultLocale: "en"})...)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	require.Contains(t, logs.String(), `"status":500`)
	require.Contains(t, logs.String(), `"route":"/boom"`)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, scrape.Body.String(), `http_requests_total{method="GET",route="/boom",status="500"} 1`)
}
