package api_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/infrastructure/api"
	"github.com/aoidb/aoi/infrastructure/nlp"
)

func newTestClient(t *testing.T) *aoi.Client {
	t.Helper()
	tmpDir := t.TempDir()
	client, err := aoi.New(
		aoi.WithSQLite(filepath.Join(tmpDir, "test.db")),
		aoi.WithDataDir(tmpDir),
		aoi.WithRecognizer(nlp.NewPatternRecognizer()),
		aoi.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAPIServer_Health(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}

func TestAPIServer_Metrics(t *testing.T) {
	client := newTestClient(t)
	handler := api.NewAPIServer(client, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("expected default Go collector output")
	}
	if !strings.Contains(w.Body.String(), "aoi_scanner_pass_duration_seconds") {
		t.Error("expected scanner histogram")
	}
}

func TestAPIServer_MountsV1Routes(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), nil).Handler()

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/entities", http.StatusOK},
		{"/api/v1/entities/1", http.StatusNotFound},
		{"/api/v1/events/1", http.StatusNotFound},
		{"/api/v1/graph", http.StatusBadRequest},
		{"/api/v1/graph?entity_id=1", http.StatusNotFound},
		{"/api/v1/relations", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAPIServer_CustomRouter(t *testing.T) {
	apiServer := api.NewAPIServer(newTestClient(t), nil)

	router := apiServer.Router()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom", "yes")
			next.ServeHTTP(w, r)
		})
	})
	apiServer.MountRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	apiServer.Handler().ServeHTTP(w, req)

	if w.Header().Get("X-Custom") != "yes" {
		t.Error("custom middleware did not run")
	}
}

func TestAPIServer_Docs(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), nil).Handler()

	t.Run("GET /docs/ serves Swagger UI", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if !strings.Contains(w.Body.String(), `url: "/docs/openapi.json"`) {
			t.Errorf("UI does not point at the document: %s", w.Body.String())
		}
	})

	t.Run("GET /docs/openapi.json describes every v1 route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		req.Header.Set("X-Forwarded-Host", "graph.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var doc struct {
			Info struct {
				Title   string `json:"title"`
				Version string `json:"version"`
			} `json:"info"`
			Servers []struct {
				URL string `json:"url"`
			} `json:"servers"`
			Paths map[string]map[string]any `json:"paths"`
		}
		if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
			t.Fatalf("document is not JSON: %v", err)
		}
		if doc.Info.Version != aoi.Version {
			t.Errorf("version = %q, want %q", doc.Info.Version, aoi.Version)
		}
		if doc.Info.Title == "" || strings.Contains(doc.Info.Title, "{{") {
			t.Errorf("title not rendered: %q", doc.Info.Title)
		}
		if len(doc.Servers) != 1 || doc.Servers[0].URL != "https://graph.example/api/v1" {
			t.Errorf("servers = %+v, want https://graph.example/api/v1", doc.Servers)
		}

		routes := map[string]string{
			"/graph":                   "get",
			"/entities":                "get",
			"/entities/{id}":           "get",
			"/entities/{id}/relations": "get",
			"/relations":               "get",
			"/events":                  "post",
			"/events/{id}":             "get",
		}
		for path, method := range routes {
			if _, ok := doc.Paths[path][method]; !ok {
				t.Errorf("missing %s %s", method, path)
			}
		}
	})
}
