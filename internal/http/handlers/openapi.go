package handlers

import (
	_ "embed"
	"html/template"
	"net/http"
	"strings"
)

//go:embed openapi.json
var openAPISpec []byte

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>DonorTrack API</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>body { margin: 0; } redoc { display: block; height: 100vh; }</style>
  </head>
  <body>
    <redoc spec-url="{{.SpecURL}}" expand-responses="200,201" required-props-first hide-hostname></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`))

// specURLFor points the docs page at the openapi.json served next to it, so
// the page keeps working when the API is mounted under a prefix.
func specURLFor(docsPath string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(docsPath, "/"), "/docs")
	return base + "/openapi.json"
}

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := docsPage.Execute(w, struct{ SpecURL string }{specURLFor(r.URL.Path)}); err != nil {
		a.Logger.Error().Err(err).Msg("render docs page")
	}
}
