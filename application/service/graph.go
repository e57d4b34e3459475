package service

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/graph"
	"github.com/aoidb/aoi/domain/repository"
)

// Neighbourhood size limits.
const (
	DefaultGraphMax = 200
	MaxGraphMax     = 1000
)

// Graph answers two-hop neighbourhood queries around an entity.
type Graph struct {
	memberships graph.MembershipReader
	entities    entity.Store
	events      event.Store
	defaultMax  int
}

// NewGraph creates a new Graph service. A non-positive defaultMax uses
// DefaultGraphMax.
func NewGraph(memberships graph.MembershipReader, entities entity.Store, events event.Store, defaultMax int) *Graph {
	if defaultMax <= 0 {
		defaultMax = DefaultGraphMax
	}
	return &Graph{
		memberships: memberships,
		entities:    entities,
		events:      events,
		defaultMax:  min(defaultMax, MaxGraphMax),
	}
}

// ClampMax maps a requested result cap into [1, MaxGraphMax]. Zero or a
// negative value selects the service default.
func (g *Graph) ClampMax(limit int) int {
	if limit <= 0 {
		return g.defaultMax
	}
	return min(limit, MaxGraphMax)
}

// Neighborhood returns the seed entity, up to max of its events, and up to
// max memberships of those events. An unknown seed returns an error
// wrapping database.ErrNotFound.
func (g *Graph) Neighborhood(ctx context.Context, seedID int64, limit int) (graph.Neighborhood, error) {
	start := time.Now()
	defer func() { graphDuration.Observe(time.Since(start).Seconds()) }()

	limit = g.ClampMax(limit)

	seed, err := g.entities.FindOne(ctx, repository.WithID(seedID))
	if err != nil {
		return graph.Neighborhood{}, fmt.Errorf("find seed entity %d: %w", seedID, err)
	}

	eventIDs, err := g.memberships.EventIDsForEntity(ctx, seedID, limit)
	if err != nil {
		return graph.Neighborhood{}, err
	}
	if len(eventIDs) == 0 {
		return graph.Build(seed, nil, nil, nil), nil
	}

	memberships, err := g.memberships.MembershipsForEvents(ctx, eventIDs, limit)
	if err != nil {
		return graph.Neighborhood{}, err
	}

	entityIDs := mapset.NewThreadUnsafeSet[int64]()
	for _, m := range memberships {
		entityIDs.Add(m.EntityID)
	}

	var (
		entities []entity.Entity
		events   []event.Event
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		found, err := g.entities.Find(egCtx, repository.WithIDIn(entityIDs.ToSlice()))
		if err != nil {
			return fmt.Errorf("load neighbourhood entities: %w", err)
		}
		entities = found
		return nil
	})
	eg.Go(func() error {
		found, err := g.events.Find(egCtx, repository.WithIDIn(eventIDs))
		if err != nil {
			return fmt.Errorf("load neighbourhood events: %w", err)
		}
		events = found
		return nil
	})
	if err := eg.Wait(); err != nil {
		return graph.Neighborhood{}, err
	}

	return graph.Build(seed, memberships, entities, events), nil
}
