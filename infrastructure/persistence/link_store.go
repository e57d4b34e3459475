package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/graph"
	"github.com/aoidb/aoi/internal/database"
)

// LinkStore implements entity.LinkStore and graph.MembershipReader using GORM.
type LinkStore struct {
	database.Repository[entity.Link, EventEntityModel]
}

// NewLinkStore creates a new LinkStore.
func NewLinkStore(db database.Database) LinkStore {
	return LinkStore{
		Repository: database.NewRepository[entity.Link, EventEntityModel](db, LinkMapper{}, "event entity link"),
	}
}

// Link inserts l, ignoring a duplicate (event, entity, reason) triple.
func (s LinkStore) Link(ctx context.Context, l entity.Link) error {
	model := s.Mapper().ToModel(l)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	result := s.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "entity_id"}, {Name: "reason"}},
			DoNothing: true,
		}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("link event %d to entity %d: %w", l.EventID(), l.EntityID(), result.Error)
	}
	return nil
}

// EventIDsForEntity returns up to limit distinct event ids linked to the entity, ascending.
func (s LinkStore) EventIDsForEntity(ctx context.Context, entityID int64, limit int) ([]int64, error) {
	var ids []int64
	db := s.DB(ctx).
		Model(&EventEntityModel{}).
		Distinct().
		Where("entity_id = ?", entityID).
		Order("event_id ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Pluck("event_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("event ids for entity %d: %w", entityID, err)
	}
	return ids, nil
}

// MembershipsForEvents returns up to limit distinct (event, entity) pairs for
// the given events, ordered by event then entity.
func (s LinkStore) MembershipsForEvents(ctx context.Context, eventIDs []int64, limit int) ([]graph.Membership, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	var rows []struct {
		EventID  int64 `gorm:"column:event_id"`
		EntityID int64 `gorm:"column:entity_id"`
	}
	db := s.DB(ctx).
		Model(&EventEntityModel{}).
		Distinct("event_id", "entity_id").
		Where("event_id IN ?", eventIDs).
		Order("event_id ASC").
		Order("entity_id ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("memberships for %d events: %w", len(eventIDs), err)
	}

	memberships := make([]graph.Membership, len(rows))
	for i, r := range rows {
		memberships[i] = graph.Membership{EventID: r.EventID, EntityID: r.EntityID}
	}
	return memberships, nil
}
