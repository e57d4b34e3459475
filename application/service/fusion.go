package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/fusion"
)

// Transactor runs fn inside one database transaction carried by the ctx it
// passes to fn. Stores called with that ctx join the transaction.
type Transactor func(ctx context.Context, fn func(ctx context.Context) error) error

// Passthrough is a Transactor that runs fn without a transaction.
func Passthrough(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// FusionStores groups the stores the fusion service writes to.
type FusionStores struct {
	Events    event.Store
	Entities  entity.Store
	Links     entity.LinkStore
	Relations entity.RelationStore
}

// FuseResult summarises the writes made for one event.
type FuseResult struct {
	EventID    int64
	Entities   int
	Relations  int
	Unresolved int
}

// Fusion runs the extraction pipeline over an event and persists its
// entities, links, and relations atomically.
type Fusion struct {
	pipeline fusion.Pipeline
	stores   FusionStores
	tx       Transactor
	logger   *slog.Logger
}

// NewFusion creates a new Fusion service.
func NewFusion(pipeline fusion.Pipeline, stores FusionStores, tx Transactor, logger *slog.Logger) *Fusion {
	if tx == nil {
		tx = Passthrough
	}
	return &Fusion{
		pipeline: pipeline,
		stores:   stores,
		tx:       tx,
		logger:   logger,
	}
}

// FuseEvent extracts mentions from e and writes them in one transaction.
// The event is marked fused in the same transaction, so a failed attempt
// leaves it eligible for the next scan.
func (f *Fusion) FuseEvent(ctx context.Context, e event.Event) (FuseResult, error) {
	if e.ID() == 0 {
		return FuseResult{}, fmt.Errorf("%w: event has no id", ErrInvalidArgument)
	}

	// Recognition can be slow; run it before the transaction opens.
	out, err := f.pipeline.Run(ctx, e)
	if err != nil {
		return FuseResult{}, fmt.Errorf("run pipeline for event %d: %w", e.ID(), err)
	}

	result := FuseResult{EventID: e.ID()}
	err = f.tx(ctx, func(ctx context.Context) error {
		ids := make(map[string]int64, len(out.Mentions))
		for _, m := range out.Mentions {
			id, err := f.stores.Entities.Ensure(ctx, m.Type(), m.Name(), m.Attrs())
			if err != nil {
				return fmt.Errorf("ensure %s %q: %w", m.Type(), m.Name(), err)
			}
			link := entity.NewLink(e.ID(), id, string(m.Provenance())).WithScore(m.Confidence())
			if err := f.stores.Links.Link(ctx, link); err != nil {
				return err
			}
			if _, ok := ids[m.Key()]; !ok {
				ids[m.Key()] = id
			}
		}

		for _, t := range out.Triples {
			src, okSrc := ids[t.SrcKey()]
			dst, okDst := ids[t.DstKey()]
			if !okSrc || !okDst {
				result.Unresolved++
				continue
			}
			if err := f.stores.Relations.Upsert(ctx, src, dst, t.Label); err != nil {
				return err
			}
			result.Relations++
		}

		return f.stores.Events.MarkFused(ctx, e.ID(), len(out.Mentions))
	})
	if err != nil {
		return FuseResult{}, fmt.Errorf("persist fusion of event %d: %w", e.ID(), err)
	}

	result.Entities = len(out.Mentions)
	for _, m := range out.Mentions {
		entitiesExtracted.WithLabelValues(string(m.Type()), string(m.Provenance())).Inc()
	}
	if result.Unresolved > 0 {
		relationsDropped.Add(float64(result.Unresolved))
	}
	eventsFused.Inc()

	f.logger.DebugContext(ctx, "event fused",
		slog.Int64("event_id", e.ID()),
		slog.Int("entities", result.Entities),
		slog.Int("relations", result.Relations),
	)
	return result, nil
}
