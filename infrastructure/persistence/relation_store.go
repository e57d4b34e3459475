package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/internal/database"
)

// RelationStore implements entity.RelationStore using GORM.
type RelationStore struct {
	database.Repository[entity.Relation, RelationModel]
	now func() time.Time
}

// NewRelationStore creates a new RelationStore.
func NewRelationStore(db database.Database) RelationStore {
	return RelationStore{
		Repository: database.NewRepository[entity.Relation, RelationModel](db, RelationMapper{}, "relation"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock returns a copy that stamps first_seen and last_seen using now.
func (s RelationStore) WithClock(now func() time.Time) RelationStore {
	s.now = now
	return s
}

// Upsert records an observation of the relation. The first observation sets
// first_seen and last_seen; later ones advance last_seen only.
//
// Endpoints must be persisted entity ids. Anything else means the caller
// resolved names incorrectly, so Upsert panics instead of writing a dangling edge.
func (s RelationStore) Upsert(ctx context.Context, srcID, dstID int64, label string) error {
	if srcID <= 0 || dstID <= 0 || label == "" {
		panic(fmt.Sprintf("relation upsert with unresolved endpoint: src=%d dst=%d label=%q", srcID, dstID, label))
	}

	now := s.now()
	weight := 1.0
	model := RelationModel{
		SrcEntityID: srcID,
		DstEntityID: dstID,
		Relation:    label,
		FirstSeen:   now,
		LastSeen:    now,
		Weight:      &weight,
	}
	result := s.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "src_entity_id"}, {Name: "dst_entity_id"}, {Name: "relation"}},
			DoUpdates: clause.Assignments(map[string]any{"last_seen": now}),
		}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("upsert relation %d-%s->%d: %w", srcID, label, dstID, result.Error)
	}
	return nil
}
