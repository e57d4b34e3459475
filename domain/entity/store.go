package entity

import (
	"context"

	"github.com/aoidb/aoi/domain/repository"
)

// Store persists entities.
type Store interface {
	repository.Reader[Entity]

	// Ensure returns the id of the entity keyed by (typ, CanonicalKey(name)),
	// creating it if absent. Attributes missing from an existing entity are
	// filled in; present ones are kept. Concurrent callers converge on one id.
	Ensure(ctx context.Context, typ Type, name string, attrs map[string]any) (int64, error)

	// FindLinked returns the entities linked to an event, by score
	// descending then name.
	FindLinked(ctx context.Context, eventID int64) ([]LinkedEntity, error)
}

// LinkStore persists event-entity links.
type LinkStore interface {
	repository.Reader[Link]

	// Link records l. A duplicate (event, entity, reason) triple is a no-op.
	Link(ctx context.Context, l Link) error
}

// RelationStore persists entity-entity relations.
type RelationStore interface {
	repository.Reader[Relation]

	// Upsert creates the relation with first_seen = last_seen = now, or
	// advances last_seen of the existing one.
	Upsert(ctx context.Context, srcID, dstID int64, label string) error
}
