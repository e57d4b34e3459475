package event

import (
	"time"

	"github.com/aoidb/aoi/domain/repository"
)

// WithSourceID filters by the "source_id" column.
func WithSourceID(id int64) repository.Option {
	return repository.WithCondition("source_id", id)
}

// WithType filters by the "event_type" column.
func WithType(t Type) repository.Option {
	return repository.WithCondition("event_type", string(t))
}

// WithOccurredAfter filters events that occurred strictly after t.
func WithOccurredAfter(t time.Time) repository.Option {
	return repository.WithGreaterThan("occurred_at", t)
}

// WithName filters sources by the "name" column.
func WithName(name string) repository.Option {
	return repository.WithCondition("name", name)
}

// WithIDAfter filters events whose id is strictly greater than id.
func WithIDAfter(id int64) repository.Option {
	return repository.WithGreaterThan("events.id", id)
}
