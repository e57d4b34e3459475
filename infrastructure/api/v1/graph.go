package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/infrastructure/api/jsonapi"
	"github.com/aoidb/aoi/infrastructure/api/middleware"
)

// GraphRouter handles neighbourhood queries.
type GraphRouter struct {
	graph      GraphService
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewGraphRouter creates a new GraphRouter.
func NewGraphRouter(graph GraphService, logger *slog.Logger) *GraphRouter {
	return &GraphRouter{
		graph:      graph,
		serializer: jsonapi.NewSerializer(),
		logger:     logger,
	}
}

// Routes returns the chi router for graph endpoints.
func (r *GraphRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Neighborhood)
	return router
}

// Neighborhood handles GET /api/v1/graph.
//
//	@Summary		Entity neighbourhood
//	@Description	Two-hop graph around an entity with co-occurrence weights
//	@Tags			graph
//	@Produce		json
//	@Param			entity_id	query	int	true	"Seed entity ID"
//	@Param			max			query	int	false	"Result cap (1-1000, default 200)"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		400	{object}	jsonapi.Document
//	@Failure		404	{object}	jsonapi.Document
//	@Router			/graph [get]
func (r *GraphRouter) Neighborhood(w http.ResponseWriter, req *http.Request) {
	seedID, err := queryID(req, "entity_id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	limit, err := queryInt(req, "max")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if req.URL.Query().Has("max") {
		limit = max(1, min(limit, service.MaxGraphMax))
	}

	n, err := r.graph.Neighborhood(req.Context(), seedID, limit)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	doc := jsonapi.NewSingleResponse(r.serializer.GraphResource(n)).WithMeta(jsonapi.Meta{
		"seed_id":    seedID,
		"node_count": len(n.Nodes()),
		"edge_count": len(n.Edges()),
	})
	middleware.WriteJSON(w, http.StatusOK, doc)
}
