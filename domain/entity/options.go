package entity

import "github.com/aoidb/aoi/domain/repository"

// WithType filters entities by the "type" column.
func WithType(t Type) repository.Option {
	return repository.WithCondition("type", string(t))
}

// WithNameLike filters entities whose name contains q, case-insensitively.
func WithNameLike(q string) repository.Option {
	return repository.WithLike("name", q)
}

// WithEventID filters links by the "event_id" column.
func WithEventID(id int64) repository.Option {
	return repository.WithCondition("event_id", id)
}

// WithEntityID filters links by the "entity_id" column.
func WithEntityID(id int64) repository.Option {
	return repository.WithCondition("entity_id", id)
}

// WithReason filters links by the "reason" column.
func WithReason(reason string) repository.Option {
	return repository.WithCondition("reason", reason)
}

// WithSrcID filters relations by source entity.
func WithSrcID(id int64) repository.Option {
	return repository.WithCondition("src_entity_id", id)
}

// WithDstID filters relations by destination entity.
func WithDstID(id int64) repository.Option {
	return repository.WithCondition("dst_entity_id", id)
}

// WithLabel filters relations by label.
func WithLabel(label string) repository.Option {
	return repository.WithCondition("relation", label)
}

// WithTouching filters relations where id is either endpoint.
func WithTouching(id int64) repository.Option {
	return repository.WithWhere("(src_entity_id = ? OR dst_entity_id = ?)", id, id)
}
