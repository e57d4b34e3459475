package event

import (
	"context"

	"github.com/aoidb/aoi/domain/repository"
)

// Store persists events.
type Store interface {
	repository.Reader[Event]

	// Save inserts the event, or updates the payload of the event that
	// shares its (source, title, occurred_at) identity.
	Save(ctx context.Context, e Event) (Event, error)

	// FindUnfused returns events that have neither entity links nor a
	// fusion marker, ordered by id ascending. Options narrow the scan,
	// for example WithIDAfter to page through a backlog.
	FindUnfused(ctx context.Context, limit int, options ...repository.Option) ([]Event, error)

	// MarkFused records that the fusion pipeline has processed the event.
	MarkFused(ctx context.Context, eventID int64, entityCount int) error
}

// SourceStore persists feed sources.
type SourceStore interface {
	repository.Reader[Source]

	// Ensure returns the source with the same name, creating it if needed.
	Ensure(ctx context.Context, s Source) (Source, error)
}
