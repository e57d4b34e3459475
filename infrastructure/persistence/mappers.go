package persistence

import (
	"time"

	"gorm.io/datatypes"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
)

// SourceMapper maps between event.Source and SourceModel.
type SourceMapper struct{}

// ToDomain converts a SourceModel to a domain Source.
func (SourceMapper) ToDomain(m SourceModel) event.Source {
	return event.ReconstructSource(m.ID, m.Name, m.URL, m.Type)
}

// ToModel converts a domain Source to a SourceModel.
func (SourceMapper) ToModel(s event.Source) SourceModel {
	return SourceModel{ID: s.ID(), Name: s.Name(), URL: s.URL(), Type: s.Kind()}
}

// EventMapper maps between event.Event and EventModel.
type EventMapper struct{}

// ToDomain converts an EventModel to a domain Event.
func (EventMapper) ToDomain(m EventModel) event.Event {
	var sourceID int64
	if m.SourceID != nil {
		sourceID = *m.SourceID
	}
	var occurredAt time.Time
	if m.OccurredAt != nil {
		occurredAt = *m.OccurredAt
	}
	return event.ReconstructEvent(
		m.ID,
		sourceID,
		m.Title,
		event.NewBody(event.BodyKind(m.BodyKind), m.Body),
		event.Type(m.EventType),
		occurredAt,
		m.DetectedAt,
		m.Jurisdiction,
		m.Lat,
		m.Lon,
		m.Confidence,
		m.Severity,
		[]byte(m.Raw),
	)
}

// ToModel converts a domain Event to an EventModel.
func (EventMapper) ToModel(e event.Event) EventModel {
	m := EventModel{
		ID:           e.ID(),
		Title:        e.Title(),
		Body:         e.Body().Text(),
		BodyKind:     int(e.Body().Kind()),
		EventType:    string(e.Type()),
		DetectedAt:   e.DetectedAt().UTC(),
		Jurisdiction: e.Jurisdiction(),
		Confidence:   e.Confidence(),
		Severity:     e.Severity(),
	}
	if e.SourceID() != 0 {
		id := e.SourceID()
		m.SourceID = &id
	}
	if !e.OccurredAt().IsZero() {
		t := e.OccurredAt().UTC()
		m.OccurredAt = &t
	}
	if lat, lon, ok := e.Location(); ok {
		m.Lat = &lat
		m.Lon = &lon
	}
	if raw := e.Raw(); len(raw) > 0 {
		m.Raw = datatypes.JSON(raw)
	}
	return m
}

// EntityMapper maps between entity.Entity and EntityModel.
type EntityMapper struct{}

// ToDomain converts an EntityModel to a domain Entity.
func (EntityMapper) ToDomain(m EntityModel) entity.Entity {
	return entity.ReconstructEntity(m.ID, entity.Type(m.Type), m.Name, m.CanonicalKey, m.Attrs)
}

// ToModel converts a domain Entity to an EntityModel.
func (EntityMapper) ToModel(e entity.Entity) EntityModel {
	return EntityModel{
		ID:           e.ID(),
		Type:         string(e.Type()),
		Name:         e.Name(),
		CanonicalKey: e.CanonicalKey(),
		Attrs:        datatypes.JSONMap(e.Attrs()),
	}
}

// LinkMapper maps between entity.Link and EventEntityModel.
type LinkMapper struct{}

// ToDomain converts an EventEntityModel to a domain Link.
func (LinkMapper) ToDomain(m EventEntityModel) entity.Link {
	return entity.ReconstructLink(m.EventID, m.EntityID, m.Reason, m.Score, m.CreatedAt)
}

// ToModel converts a domain Link to an EventEntityModel.
func (LinkMapper) ToModel(l entity.Link) EventEntityModel {
	m := EventEntityModel{
		EventID:   l.EventID(),
		EntityID:  l.EntityID(),
		Reason:    l.Reason(),
		CreatedAt: l.CreatedAt(),
	}
	if s, ok := l.Score(); ok {
		m.Score = &s
	}
	return m
}

// RelationMapper maps between entity.Relation and RelationModel.
type RelationMapper struct{}

// ToDomain converts a RelationModel to a domain Relation.
func (RelationMapper) ToDomain(m RelationModel) entity.Relation {
	return entity.ReconstructRelation(m.SrcEntityID, m.DstEntityID, m.Relation, m.FirstSeen, m.LastSeen, m.Weight)
}

// ToModel converts a domain Relation to a RelationModel.
func (RelationMapper) ToModel(r entity.Relation) RelationModel {
	m := RelationModel{
		SrcEntityID: r.SrcID(),
		DstEntityID: r.DstID(),
		Relation:    r.Label(),
		FirstSeen:   r.FirstSeen(),
		LastSeen:    r.LastSeen(),
	}
	if w, ok := r.Weight(); ok {
		m.Weight = &w
	}
	return m
}
