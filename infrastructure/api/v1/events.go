package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/infrastructure/api/jsonapi"
	"github.com/aoidb/aoi/infrastructure/api/middleware"
	"github.com/aoidb/aoi/infrastructure/api/v1/dto"
)

const maxEventBody = 1 << 20

// EventsRouter handles event endpoints.
type EventsRouter struct {
	events     EventService
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewEventsRouter creates a new EventsRouter.
func NewEventsRouter(events EventService, logger *slog.Logger) *EventsRouter {
	return &EventsRouter{
		events:     events,
		serializer: jsonapi.NewSerializer(),
		logger:     logger,
	}
}

// Routes returns the chi router for event endpoints.
func (r *EventsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", r.Create)
	router.Get("/{id}", r.Get)
	return router
}

// IngestRequest converts the request body to a service request.
func IngestRequest(body dto.EventCreateRequest) service.IngestRequest {
	req := service.IngestRequest{
		Source:       body.Source,
		SourceURL:    body.SourceURL,
		SourceKind:   body.SourceKind,
		Title:        body.Title,
		Body:         body.Body,
		Type:         body.EventType,
		Jurisdiction: body.Jurisdiction,
		Lat:          body.Lat,
		Lon:          body.Lon,
		Confidence:   body.Confidence,
		Severity:     body.Severity,
		Raw:          body.Raw,
	}
	if body.OccurredAt != nil {
		req.OccurredAt = *body.OccurredAt
	}
	return req
}

// Create handles POST /api/v1/events.
//
//	@Summary		Ingest event
//	@Description	Store an event; it is fused by the next scanner pass
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.EventCreateRequest	true	"Event"
//	@Success		201	{object}	jsonapi.Document
//	@Failure		400	{object}	jsonapi.Document
//	@Router			/events [post]
func (r *EventsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.EventCreateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxEventBody))
	if err := decoder.Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.BadRequest("invalid JSON body", err), r.logger)
		return
	}

	e, err := r.events.Ingest(req.Context(), IngestRequest(body))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, jsonapi.NewSingleResponse(r.serializer.EventResource(e)))
}

// Get handles GET /api/v1/events/{id}.
//
//	@Summary		Get event
//	@Description	Event with its linked entities, highest score first
//	@Tags			events
//	@Produce		json
//	@Param			id	path		int	true	"Event ID"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		404	{object}	jsonapi.Document
//	@Router			/events/{id} [get]
func (r *EventsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	detail, err := r.events.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	linked := r.serializer.LinkedEntityResources(detail.Entities)
	resource := r.serializer.EventResource(detail.Event).Relate("entities", linked)
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(resource).WithIncluded(linked...))
}
