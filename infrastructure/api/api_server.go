package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/infrastructure/api/middleware"
	v1 "github.com/aoidb/aoi/infrastructure/api/v1"
	mcpinternal "github.com/aoidb/aoi/internal/mcp"
)

// APIServer provides an HTTP API backed by an aoi Client.
type APIServer struct {
	client       *aoi.Client
	corsOrigins  []string
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
	mu           sync.Mutex
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *aoi.Client, corsOrigins []string) *APIServer {
	return &APIServer{
		client:      client,
		corsOrigins: corsOrigins,
		logger:      client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all routes on the router.
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	router.Get("/health", a.health)
	router.Handle("/metrics", promhttp.Handler())
	router.Mount("/docs", NewDocsRouter(OpenAPISpec(aoi.Version), "/docs/openapi.json").Routes())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Mount("/graph", v1.NewGraphRouter(c.Graph, a.logger).Routes())
		r.Mount("/entities", v1.NewEntitiesRouter(c.Entities, a.logger).Routes())
		r.Mount("/relations", v1.NewRelationsRouter(c.Entities, a.logger).Routes())
		r.Mount("/events", v1.NewEventsRouter(c.Events, a.logger).Routes())
	})

	// MCP streams responses, so it sits outside the timeout group.
	mcpSrv := mcpinternal.NewServer(c.Graph, c.Entities, c.Events, aoi.Version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "healthy", "version": aoi.Version}
	if a.client.Closed() {
		status = http.StatusServiceUnavailable
		body["status"] = "closed"
	}
	middleware.WriteJSON(w, status, body)
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	srv := NewServer(addr, a.logger, a.corsOrigins...)

	a.mu.Lock()
	a.server = srv
	a.mu.Unlock()

	if a.routerCalled && a.router != nil {
		srv.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(srv.Router())
	}

	return srv.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
