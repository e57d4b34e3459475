package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/repository"
)

// IngestRequest describes one incoming event.
type IngestRequest struct {
	Source       string
	SourceURL    string
	SourceKind   string
	Title        string
	Type         string
	OccurredAt   time.Time
	Jurisdiction string
	Lat          *float64
	Lon          *float64
	Confidence   float64
	Severity     string
	Raw          []byte
	Body         string
}

// EventDetail is an event with the entities linked to it.
type EventDetail struct {
	Event    event.Event
	Entities []entity.LinkedEntity
}

// Events stores incoming events and reads them back with their links.
type Events struct {
	events   event.Store
	sources  event.SourceStore
	entities entity.Store
}

// NewEvents creates a new Events service.
func NewEvents(events event.Store, sources event.SourceStore, entities entity.Store) *Events {
	return &Events{events: events, sources: sources, entities: entities}
}

// Ingest saves the event described by req. Re-ingesting an event with the
// same source, title, and occurrence time updates it in place.
func (s *Events) Ingest(ctx context.Context, req IngestRequest) (event.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return event.Event{}, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		return event.Event{}, fmt.Errorf("%w: lat and lon must be given together", ErrInvalidArgument)
	}

	e := event.NewEvent(title, event.TextBody(req.Body), event.ParseType(req.Type), req.OccurredAt)
	if len(req.Raw) > 0 {
		e = e.WithRaw(req.Raw)
	}
	if req.Jurisdiction != "" {
		e = e.WithJurisdiction(req.Jurisdiction)
	}
	if req.Lat != nil {
		e = e.WithLocation(*req.Lat, *req.Lon)
	}
	if req.Confidence != 0 {
		e = e.WithConfidence(req.Confidence)
	}
	if req.Severity != "" {
		e = e.WithSeverity(req.Severity)
	}

	if name := strings.TrimSpace(req.Source); name != "" {
		src, err := s.sources.Ensure(ctx, event.NewSource(name, req.SourceURL, req.SourceKind))
		if err != nil {
			return event.Event{}, fmt.Errorf("ensure source %q: %w", name, err)
		}
		e = e.WithSourceID(src.ID())
	}

	saved, err := s.events.Save(ctx, e)
	if err != nil {
		return event.Event{}, fmt.Errorf("save event: %w", err)
	}
	return saved, nil
}

// Get returns an event and its linked entities.
func (s *Events) Get(ctx context.Context, id int64) (EventDetail, error) {
	e, err := s.events.FindOne(ctx, repository.WithID(id))
	if err != nil {
		return EventDetail{}, fmt.Errorf("find event %d: %w", id, err)
	}
	linked, err := s.entities.FindLinked(ctx, id)
	if err != nil {
		return EventDetail{}, err
	}
	return EventDetail{Event: e, Entities: linked}, nil
}

// Unfused returns up to limit events still waiting for fusion.
func (s *Events) Unfused(ctx context.Context, limit int) ([]event.Event, error) {
	return s.events.FindUnfused(ctx, limit)
}
