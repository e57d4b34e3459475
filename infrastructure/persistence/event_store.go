package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/repository"
	"github.com/aoidb/aoi/internal/database"
)

// EventStore implements event.Store using GORM.
type EventStore struct {
	database.Repository[event.Event, EventModel]
}

// NewEventStore creates a new EventStore.
func NewEventStore(db database.Database) EventStore {
	return EventStore{
		Repository: database.NewRepository[event.Event, EventModel](db, EventMapper{}, "event"),
	}
}

// Save inserts e, or refreshes the payload of the stored event with the same
// source, title, and occurrence time. Identity fields are never rewritten.
func (s EventStore) Save(ctx context.Context, e event.Event) (event.Event, error) {
	model := s.Mapper().ToModel(e)

	if model.ID == 0 {
		existing, err := s.findIdentity(ctx, model)
		switch {
		case err == nil:
			model.ID = existing.ID
			model.DetectedAt = existing.DetectedAt
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return event.Event{}, fmt.Errorf("find event identity: %w", err)
		}
	}

	if model.ID == 0 {
		if err := s.DB(ctx).Create(&model).Error; err != nil {
			return event.Event{}, fmt.Errorf("create event: %w", err)
		}
		return s.Mapper().ToDomain(model), nil
	}

	result := s.DB(ctx).
		Model(&EventModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"body":         model.Body,
			"body_kind":    model.BodyKind,
			"event_type":   model.EventType,
			"jurisdiction": model.Jurisdiction,
			"lat":          model.Lat,
			"lon":          model.Lon,
			"confidence":   model.Confidence,
			"severity":     model.Severity,
			"raw":          model.Raw,
		})
	if result.Error != nil {
		return event.Event{}, fmt.Errorf("update event %d: %w", model.ID, result.Error)
	}
	return s.FindOne(ctx, repository.WithID(model.ID))
}

func (s EventStore) findIdentity(ctx context.Context, m EventModel) (EventModel, error) {
	db := s.DB(ctx).Model(&EventModel{}).Where("title = ?", m.Title)
	if m.SourceID == nil {
		db = db.Where("source_id IS NULL")
	} else {
		db = db.Where("source_id = ?", *m.SourceID)
	}
	if m.OccurredAt == nil {
		db = db.Where("occurred_at IS NULL")
	} else {
		db = db.Where("occurred_at = ?", *m.OccurredAt)
	}
	var existing EventModel
	err := db.Order("id ASC").First(&existing).Error
	return existing, err
}

// FindUnfused returns events with no entity links and no fusion marker,
// oldest id first. The order is stable so a restarted scanner resumes where
// it left off.
func (s EventStore) FindUnfused(ctx context.Context, limit int, extra ...repository.Option) ([]event.Event, error) {
	options := []repository.Option{
		repository.WithWhere("NOT EXISTS (SELECT 1 FROM event_entities WHERE event_entities.event_id = events.id)"),
		repository.WithWhere("NOT EXISTS (SELECT 1 FROM event_fusions WHERE event_fusions.event_id = events.id)"),
		repository.WithOrderAsc("events.id"),
	}
	options = append(options, extra...)
	if limit > 0 {
		options = append(options, repository.WithLimit(limit))
	}
	return s.Find(ctx, options...)
}

// MarkFused records that the event went through the fusion pipeline.
func (s EventStore) MarkFused(ctx context.Context, eventID int64, entityCount int) error {
	model := EventFusionModel{
		EventID:     eventID,
		EntityCount: entityCount,
		FusedAt:     time.Now().UTC(),
	}
	result := s.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"entity_count", "fused_at"}),
		}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("mark event %d fused: %w", eventID, result.Error)
	}
	return nil
}

// SourceStore implements event.SourceStore using GORM.
type SourceStore struct {
	database.Repository[event.Source, SourceModel]
}

// NewSourceStore creates a new SourceStore.
func NewSourceStore(db database.Database) SourceStore {
	return SourceStore{
		Repository: database.NewRepository[event.Source, SourceModel](db, SourceMapper{}, "source"),
	}
}

// Ensure returns the source with the same name, creating it if absent.
func (s SourceStore) Ensure(ctx context.Context, src event.Source) (event.Source, error) {
	existing, err := s.FindOne(ctx, event.WithName(src.Name()))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return event.Source{}, err
	}

	model := s.Mapper().ToModel(src)
	model.CreatedAt = time.Now().UTC()
	result := s.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return event.Source{}, fmt.Errorf("create source: %w", result.Error)
	}
	return s.FindOne(ctx, event.WithName(src.Name()))
}
