package graph

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
)

type pair struct{ lo, hi int64 }

// Build assembles a neighbourhood from memberships and the metadata of every
// entity and event they reference. Memberships whose entity or event has no
// metadata are dropped. The result depends only on its inputs, not on their
// order.
//
// Co-occurrence is quadratic in entities per event: the cost is
// O(events x entities-per-event^2), which callers bound by capping the number
// of memberships they pass in.
func Build(seed entity.Entity, memberships []Membership, entities []entity.Entity, events []event.Event) Neighborhood {
	entityByID := make(map[int64]entity.Entity, len(entities)+1)
	for _, e := range entities {
		entityByID[e.ID()] = e
	}
	entityByID[seed.ID()] = seed

	eventByID := make(map[int64]event.Event, len(events))
	for _, e := range events {
		eventByID[e.ID()] = e
	}

	entityIDs := mapset.NewThreadUnsafeSet[int64](seed.ID())
	eventIDs := mapset.NewThreadUnsafeSet[int64]()
	seen := mapset.NewThreadUnsafeSet[Membership]()
	members := make(map[int64][]int64)

	for _, m := range memberships {
		if _, ok := entityByID[m.EntityID]; !ok {
			continue
		}
		if _, ok := eventByID[m.EventID]; !ok {
			continue
		}
		if !seen.Add(m) {
			continue
		}
		entityIDs.Add(m.EntityID)
		eventIDs.Add(m.EventID)
		members[m.EventID] = append(members[m.EventID], m.EntityID)
	}

	n := Neighborhood{seedID: seed.ID()}

	for _, id := range sorted(entityIDs) {
		e := entityByID[id]
		n.nodes = append(n.nodes, Node{
			id:      EntityNodeID(id),
			kind:    KindEntity,
			refID:   id,
			label:   e.Name(),
			subtype: string(e.Type()),
		})
	}
	for _, id := range sorted(eventIDs) {
		e := eventByID[id]
		n.nodes = append(n.nodes, Node{
			id:         EventNodeID(id),
			kind:       KindEvent,
			refID:      id,
			label:      e.Title(),
			subtype:    string(e.Type()),
			occurredAt: e.OccurredAt(),
		})
	}

	weights := make(map[pair]int)
	for _, eventID := range sorted(eventIDs) {
		ids := members[eventID]
		slices.Sort(ids)
		for _, entityID := range ids {
			n.edges = append(n.edges, Edge{
				source: EntityNodeID(entityID),
				target: EventNodeID(eventID),
				kind:   EdgeMembership,
				weight: 1,
			})
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				weights[pair{lo: ids[i], hi: ids[j]}]++
			}
		}
	}

	pairs := make([]pair, 0, len(weights))
	for p := range weights {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		if a.lo != b.lo {
			return cmpInt64(a.lo, b.lo)
		}
		return cmpInt64(a.hi, b.hi)
	})
	for _, p := range pairs {
		n.edges = append(n.edges, Edge{
			source: EntityNodeID(p.lo),
			target: EntityNodeID(p.hi),
			kind:   EdgeCooccurrence,
			weight: weights[p],
		})
	}

	return n
}

func sorted(s mapset.Set[int64]) []int64 {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
