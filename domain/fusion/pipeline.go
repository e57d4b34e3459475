package fusion

import (
	"context"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
)

// Result is the output of running the pipeline over one event.
type Result struct {
	Text     string
	Mentions []entity.Mention
	Triples  []entity.Triple
}

// Pipeline runs normalize, extract, enrich, dedupe, and relation extraction
// in that order. It performs no writes.
type Pipeline struct {
	extractor *Extractor
	enricher  Enricher
}

// NewPipeline creates a pipeline from its stateful stages.
func NewPipeline(extractor *Extractor, enricher Enricher) Pipeline {
	return Pipeline{extractor: extractor, enricher: enricher}
}

// Run processes one event. Empty text produces an empty result.
func (p Pipeline) Run(ctx context.Context, e event.Event) (Result, error) {
	text := Normalize(e)

	mentions, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return Result{}, err
	}
	mentions = Deduplicate(p.enricher.Enrich(mentions))

	return Result{
		Text:     text,
		Mentions: mentions,
		Triples:  ExtractRelations(text, mentions),
	}, nil
}
