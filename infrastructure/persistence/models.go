package persistence

import (
	"time"

	"gorm.io/datatypes"
)

// SourceModel represents a feed source.
type SourceModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	URL       string    `gorm:"column:url"`
	Type      string    `gorm:"column:type"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName returns the table name.
func (SourceModel) TableName() string { return "sources" }

// EventModel represents a normalized incident record.
type EventModel struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	SourceID     *int64         `gorm:"column:source_id;index:idx_events_identity,priority:1"`
	Title        string         `gorm:"column:title;not null;index:idx_events_identity,priority:2"`
	Body         string         `gorm:"column:body"`
	BodyKind     int            `gorm:"column:body_kind;not null;default:0"`
	EventType    string         `gorm:"column:event_type;not null;default:'Other';index"`
	OccurredAt   *time.Time     `gorm:"column:occurred_at;index:idx_events_identity,priority:3"`
	DetectedAt   time.Time      `gorm:"column:detected_at;not null;index"`
	Jurisdiction string         `gorm:"column:jurisdiction;index"`
	Lat          *float64       `gorm:"column:lat"`
	Lon          *float64       `gorm:"column:lon"`
	Confidence   float64        `gorm:"column:confidence;not null;default:0"`
	Severity     string         `gorm:"column:severity"`
	Raw          datatypes.JSON `gorm:"column:raw"`
}

// TableName returns the table name.
func (EventModel) TableName() string { return "events" }

// EventFusionModel marks an event as processed by the fusion pipeline, so
// events that yield no entities are not rescanned forever.
type EventFusionModel struct {
	EventID     int64     `gorm:"column:event_id;primaryKey;autoIncrement:false"`
	EntityCount int       `gorm:"column:entity_count;not null"`
	FusedAt     time.Time `gorm:"column:fused_at;not null"`
}

// TableName returns the table name.
func (EventFusionModel) TableName() string { return "event_fusions" }

// EntityModel represents a deduplicated entity.
type EntityModel struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Type         string            `gorm:"column:type;not null;uniqueIndex:idx_entities_identity,priority:1"`
	Name         string            `gorm:"column:name;not null;index"`
	CanonicalKey string            `gorm:"column:canonical_key;not null;uniqueIndex:idx_entities_identity,priority:2"`
	Attrs        datatypes.JSONMap `gorm:"column:attrs"`
	CreatedAt    time.Time         `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;not null"`
}

// TableName returns the table name.
func (EntityModel) TableName() string { return "entities" }

// EventEntityModel links an event to an entity for a reason.
type EventEntityModel struct {
	EventID   int64     `gorm:"column:event_id;primaryKey;autoIncrement:false"`
	EntityID  int64     `gorm:"column:entity_id;primaryKey;autoIncrement:false;index:idx_event_entities_entity,priority:1"`
	Reason    string    `gorm:"column:reason;primaryKey"`
	Score     *float64  `gorm:"column:score"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName returns the table name.
func (EventEntityModel) TableName() string { return "event_entities" }

// RelationModel is a directed relation between two entities.
type RelationModel struct {
	SrcEntityID int64     `gorm:"column:src_entity_id;primaryKey;autoIncrement:false"`
	DstEntityID int64     `gorm:"column:dst_entity_id;primaryKey;autoIncrement:false;index"`
	Relation    string    `gorm:"column:relation;primaryKey"`
	FirstSeen   time.Time `gorm:"column:first_seen;not null"`
	LastSeen    time.Time `gorm:"column:last_seen;not null"`
	Weight      *float64  `gorm:"column:weight"`
}

// TableName returns the table name.
func (RelationModel) TableName() string { return "relations" }
