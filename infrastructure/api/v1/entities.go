package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/infrastructure/api/jsonapi"
	"github.com/aoidb/aoi/infrastructure/api/middleware"
)

// EntitiesRouter handles entity endpoints.
type EntitiesRouter struct {
	entities   EntityService
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewEntitiesRouter creates a new EntitiesRouter.
func NewEntitiesRouter(entities EntityService, logger *slog.Logger) *EntitiesRouter {
	return &EntitiesRouter{
		entities:   entities,
		serializer: jsonapi.NewSerializer(),
		logger:     logger,
	}
}

// Routes returns the chi router for entity endpoints.
func (r *EntitiesRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.List)
	router.Get("/{id}", r.Get)
	router.Get("/{id}/relations", r.Relations)
	return router
}

// List handles GET /api/v1/entities.
//
//	@Summary		Search entities
//	@Tags			entities
//	@Produce		json
//	@Param			type		query	string	false	"Entity type"
//	@Param			q			query	string	false	"Case-insensitive name substring"
//	@Param			page		query	int		false	"Page number (default: 1)"
//	@Param			page_size	query	int		false	"Results per page (default: 20, max: 100)"
//	@Success		200	{object}	jsonapi.Document
//	@Router			/entities [get]
func (r *EntitiesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)
	filter := service.EntityFilter{
		Type:   entity.Type(req.URL.Query().Get("type")),
		Query:  req.URL.Query().Get("q"),
		Limit:  pagination.Limit(),
		Offset: pagination.Offset(),
	}

	found, err := r.entities.Search(ctx, filter)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	total, err := r.entities.Count(ctx, filter)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	doc := jsonapi.NewListResponse(r.serializer.EntityResources(found))
	doc.WithMeta(pagination.Meta(total))
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Get handles GET /api/v1/entities/{id}.
//
//	@Summary		Get entity
//	@Tags			entities
//	@Produce		json
//	@Param			id	path		int	true	"Entity ID"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		404	{object}	jsonapi.Document
//	@Router			/entities/{id} [get]
func (r *EntitiesRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	e, err := r.entities.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(r.serializer.EntityResource(e)))
}

// Relations handles GET /api/v1/entities/{id}/relations.
//
//	@Summary		Entity relations
//	@Tags			entities
//	@Produce		json
//	@Param			id	path		int	true	"Entity ID"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		404	{object}	jsonapi.Document
//	@Router			/entities/{id}/relations [get]
func (r *EntitiesRouter) Relations(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	writeRelations(w, req, r.entities, r.serializer, id, r.logger)
}

// RelationsRouter handles GET /api/v1/relations?entity_id=.
type RelationsRouter struct {
	entities   EntityService
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewRelationsRouter creates a new RelationsRouter.
func NewRelationsRouter(entities EntityService, logger *slog.Logger) *RelationsRouter {
	return &RelationsRouter{
		entities:   entities,
		serializer: jsonapi.NewSerializer(),
		logger:     logger,
	}
}

// Routes returns the chi router for relation endpoints.
func (r *RelationsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.List)
	return router
}

// List handles GET /api/v1/relations.
//
//	@Summary		Relations touching an entity
//	@Tags			relations
//	@Produce		json
//	@Param			entity_id	query	int	true	"Entity ID"
//	@Success		200	{object}	jsonapi.Document
//	@Router			/relations [get]
func (r *RelationsRouter) List(w http.ResponseWriter, req *http.Request) {
	id, err := queryID(req, "entity_id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	writeRelations(w, req, r.entities, r.serializer, id, r.logger)
}

func writeRelations(w http.ResponseWriter, req *http.Request, entities EntityService, s *jsonapi.Serializer, id int64, logger *slog.Logger) {
	rels, err := entities.Relations(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(s.RelationResources(rels)))
}
