package graph

import "context"

// MembershipReader reads the event-entity link table for traversal.
type MembershipReader interface {
	// EventIDsForEntity returns up to limit distinct event ids linked to
	// the entity, ascending.
	EventIDsForEntity(ctx context.Context, entityID int64, limit int) ([]int64, error)

	// MembershipsForEvents returns up to limit distinct (event, entity)
	// pairs for the given events, ordered by event then entity.
	MembershipsForEvents(ctx context.Context, eventIDs []int64, limit int) ([]Membership, error)
}
