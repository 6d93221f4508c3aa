package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		wantSame bool
	}{
		{name: "generated", inbound: ""},
		{name: "propagated", inbound: "abc-123", wantSame: true},
		{name: "oversized replaced", inbound: strings.Repeat("x", maxRequestIDLength+1)},
		{name: "control characters replaced", inbound: "bad\tid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header.Set(RequestIDHeader, tc.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("request id missing from context")
			}
			if got := rec.Header().Get(RequestIDHeader); got != seen {
				t.Fatalf("header %q != context %q", got, seen)
			}
			if tc.wantSame != (seen == tc.inbound) {
				t.Fatalf("request id = %q, inbound %q, wantSame %v", seen, tc.inbound, tc.wantSame)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := CORS([]string{"http://localhost:3000"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/v1/donations", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/donations", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Allow-Origin = %q for disallowed origin", got)
	}

	rec = httptest.NewRecorder()
	CORS([]string{"*"})(next).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://evil.test" {
		t.Fatalf("wildcard Allow-Origin = %q", got)
	}
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	started  int
	finished []recordedRequest
}

func (f *fakeRecorder) RequestStarted() { f.started++ }

func (f *fakeRecorder) RequestFinished(method, route string, status int, _ time.Duration) {
	f.finished = append(f.finished, recordedRequest{method: method, route: route, status: status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	rec := &fakeRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/v1/donations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/v1/donations/donation-1", "/v1/donations/donation-2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if rec.started != 3 || len(rec.finished) != 3 {
		t.Fatalf("started=%d finished=%d, want 3 each", rec.started, len(rec.finished))
	}
	want := recordedRequest{method: http.MethodGet, route: "/v1/donations/{id}", status: http.StatusNotFound}
	if rec.finished[0] != want || rec.finished[1] != want {
		t.Fatalf("finished = %+v", rec.finished)
	}
	if rec.finished[2].route != "unmatched" {
		t.Fatalf("unmatched route = %q", rec.finished[2].route)
	}
}

func TestLoggerWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("nope"))
	})))
	req := httptest.NewRequest(http.MethodPost, "/v1/donations", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["level"] != "warn" || line["request_id"] != "rid-1" || line["status"] != float64(422) || line["bytes"] != float64(4) {
		t.Fatalf("log line = %v", line)
	}
}
