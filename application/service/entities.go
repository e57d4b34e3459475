package service

import (
	"context"
	"fmt"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/repository"
)

// DefaultSearchLimit caps entity searches that give no limit.
const DefaultSearchLimit = 50

// Entities reads entities and their relations.
type Entities struct {
	entities  entity.Store
	relations entity.RelationStore
}

// NewEntities creates a new Entities service.
func NewEntities(entities entity.Store, relations entity.RelationStore) *Entities {
	return &Entities{entities: entities, relations: relations}
}

// Get returns one entity by id.
func (s *Entities) Get(ctx context.Context, id int64) (entity.Entity, error) {
	e, err := s.entities.FindOne(ctx, repository.WithID(id))
	if err != nil {
		return entity.Entity{}, fmt.Errorf("find entity %d: %w", id, err)
	}
	return e, nil
}

// EntityFilter narrows an entity search. Empty fields match everything.
type EntityFilter struct {
	Type   entity.Type
	Query  string
	Limit  int
	Offset int
}

func (f EntityFilter) options() []repository.Option {
	var options []repository.Option
	if f.Type != "" {
		options = append(options, entity.WithType(f.Type))
	}
	if f.Query != "" {
		options = append(options, entity.WithNameLike(f.Query))
	}
	return options
}

// Search returns entities matching filter, ordered by name.
func (s *Entities) Search(ctx context.Context, filter EntityFilter) ([]entity.Entity, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	options := append(filter.options(),
		repository.WithOrderAsc("name"),
		repository.WithOrderAsc("id"),
		repository.WithLimit(limit),
		repository.WithOffset(filter.Offset),
	)
	return s.entities.Find(ctx, options...)
}

// Count returns how many entities match filter, ignoring its paging.
func (s *Entities) Count(ctx context.Context, filter EntityFilter) (int64, error) {
	return s.entities.Count(ctx, filter.options()...)
}

// Relations returns the relations that start or end at the entity, most
// recently seen first.
func (s *Entities) Relations(ctx context.Context, entityID int64) ([]entity.Relation, error) {
	if _, err := s.Get(ctx, entityID); err != nil {
		return nil, err
	}
	return s.relations.Find(ctx,
		entity.WithTouching(entityID),
		repository.WithOrderDesc("last_seen"),
		repository.WithOrderAsc("relation"),
	)
}
