package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var openapiTemplate string

// placeholderServer is the server URL in openapi.json, rewritten per request
// so "Try it out" targets the host the page was loaded from.
const placeholderServer = `"url": "//localhost:8080/api/v1"`

// OpenAPISpec returns the swag spec for the v1 API at the given version.
func OpenAPISpec(version string) *swag.Spec {
	return &swag.Spec{
		Version:          version,
		BasePath:         "/api/v1",
		Title:            "AOI entity graph API",
		Description:      "Fused entities, their relations, and two-hop neighbourhoods over incident events.",
		InfoInstanceName: "aoi",
		SwaggerTemplate:  openapiTemplate,
		LeftDelim:        "{{",
		RightDelim:       "}}",
	}
}

var swaggerUI = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" charset="UTF-8"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: "{{.SpecURL}}",
                dom_id: "#swagger-ui",
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis]
            });
        };
    </script>
</body>
</html>`))

// DocsRouter serves Swagger UI and the OpenAPI document.
type DocsRouter struct {
	spec    *swag.Spec
	specURL string
}

// NewDocsRouter creates a docs router. specURL is where the UI fetches the
// document, normally "/docs/openapi.json".
func NewDocsRouter(spec *swag.Spec, specURL string) *DocsRouter {
	return &DocsRouter{spec: spec, specURL: specURL}
}

// Routes returns the chi router for documentation endpoints.
func (d *DocsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", d.ui)
	router.Get("/openapi.json", d.document)
	return router
}

func (d *DocsRouter) ui(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = swaggerUI.Execute(w, struct{ Title, SpecURL string }{d.spec.Title, d.specURL})
}

func (d *DocsRouter) document(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}
	doc := strings.Replace(d.spec.ReadDoc(), placeholderServer,
		fmt.Sprintf(`"url": "%s://%s%s"`, scheme, host, d.spec.BasePath), 1)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
