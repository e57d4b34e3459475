package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/repository"
	"github.com/aoidb/aoi/internal/database"
)

// ErrEmptyName is returned when an entity name is blank.
var ErrEmptyName = errors.New("entity name is empty")

// EntityStore implements entity.Store using GORM.
type EntityStore struct {
	database.Repository[entity.Entity, EntityModel]
}

// NewEntityStore creates a new EntityStore.
func NewEntityStore(db database.Database) EntityStore {
	return EntityStore{
		Repository: database.NewRepository[entity.Entity, EntityModel](db, EntityMapper{}, "entity"),
	}
}

// Ensure returns the id of the (typ, name) entity, creating it if needed.
// Creation relies on the unique (type, canonical_key) index: a losing
// concurrent insert does nothing and the winner's row is read back.
func (s EntityStore) Ensure(ctx context.Context, typ entity.Type, name string, attrs map[string]any) (int64, error) {
	candidate := entity.NewEntity(typ, name, attrs)
	if candidate.CanonicalKey() == "" {
		return 0, ErrEmptyName
	}

	existing, err := s.byKey(ctx, typ, candidate.CanonicalKey())
	if err == nil {
		return existing.ID(), s.fill(ctx, existing, attrs)
	}
	if !errors.Is(err, database.ErrNotFound) {
		return 0, err
	}

	now := time.Now().UTC()
	model := s.Mapper().ToModel(candidate)
	model.CreatedAt = now
	model.UpdatedAt = now

	result := s.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "canonical_key"}},
			DoNothing: true,
		}).
		Create(&model)
	if result.Error != nil {
		return 0, fmt.Errorf("create entity: %w", result.Error)
	}
	if result.RowsAffected == 1 && model.ID != 0 {
		return model.ID, nil
	}

	existing, err = s.byKey(ctx, typ, candidate.CanonicalKey())
	if err != nil {
		return 0, fmt.Errorf("read back entity after conflict: %w", err)
	}
	return existing.ID(), s.fill(ctx, existing, attrs)
}

func (s EntityStore) byKey(ctx context.Context, typ entity.Type, key string) (entity.Entity, error) {
	return s.FindOne(ctx, entity.WithType(typ), repository.WithCondition("canonical_key", key))
}

func (s EntityStore) fill(ctx context.Context, existing entity.Entity, attrs map[string]any) error {
	merged, changed := existing.FillAttrs(attrs)
	if !changed {
		return nil
	}
	result := s.DB(ctx).
		Model(&EntityModel{}).
		Where("id = ?", existing.ID()).
		Updates(map[string]any{
			"attrs":      datatypes.JSONMap(merged.Attrs()),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("fill entity attrs: %w", result.Error)
	}
	return nil
}

type linkedEntityRow struct {
	EntityModel
	Reason string   `gorm:"column:reason"`
	Score  *float64 `gorm:"column:score"`
}

// FindLinked returns the entities linked to an event, highest score first,
// then by name. An entity linked for several reasons appears once per reason.
func (s EntityStore) FindLinked(ctx context.Context, eventID int64) ([]entity.LinkedEntity, error) {
	var rows []linkedEntityRow
	err := s.DB(ctx).
		Table("event_entities").
		Select("entities.*, event_entities.reason AS reason, event_entities.score AS score").
		Joins("JOIN entities ON entities.id = event_entities.entity_id").
		Where("event_entities.event_id = ?", eventID).
		Order("COALESCE(event_entities.score, 0) DESC").
		Order("entities.name ASC").
		Order("event_entities.reason ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find linked entities: %w", err)
	}

	linked := make([]entity.LinkedEntity, len(rows))
	for i, r := range rows {
		linked[i] = entity.NewLinkedEntity(s.Mapper().ToDomain(r.EntityModel), r.Reason, r.Score)
	}
	return linked, nil
}
