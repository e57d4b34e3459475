// Package v1 provides the v1 API routes.
package v1

import (
	"context"

	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/graph"
)

// GraphService answers neighbourhood queries.
type GraphService interface {
	Neighborhood(ctx context.Context, seedID int64, limit int) (graph.Neighborhood, error)
}

// EntityService reads entities and relations.
type EntityService interface {
	Get(ctx context.Context, id int64) (entity.Entity, error)
	Search(ctx context.Context, filter service.EntityFilter) ([]entity.Entity, error)
	Count(ctx context.Context, filter service.EntityFilter) (int64, error)
	Relations(ctx context.Context, entityID int64) ([]entity.Relation, error)
}

// EventService stores and reads events.
type EventService interface {
	Ingest(ctx context.Context, req service.IngestRequest) (event.Event, error)
	Get(ctx context.Context, id int64) (service.EventDetail, error)
}
