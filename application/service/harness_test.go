package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/fusion"
	"github.com/aoidb/aoi/infrastructure/nlp"
	"github.com/aoidb/aoi/infrastructure/persistence"
	"github.com/aoidb/aoi/internal/config"
	"github.com/aoidb/aoi/internal/database"
	"github.com/aoidb/aoi/internal/testdb"
)

var errPoisoned = errors.New("recognizer rejected input")

var occurredAt = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type harness struct {
	db        database.Database
	events    persistence.EventStore
	sources   persistence.SourceStore
	entities  persistence.EntityStore
	links     persistence.LinkStore
	relations persistence.RelationStore
	fusion    *Fusion
	scanner   *Scanner
}

// poisonAware wraps the pattern recognizer and fails on any text that
// contains POISON.
func poisonAware() fusion.Recognizer {
	pattern := nlp.NewPatternRecognizer()
	return fusion.RecognizerFunc(func(ctx context.Context, text string) ([]fusion.Recognition, error) {
		if strings.Contains(text, "POISON") {
			return nil, errPoisoned
		}
		return pattern.Recognize(ctx, text)
	})
}

func newHarness(t *testing.T, batchSize int) harness {
	t.Helper()
	return newHarnessWith(t, batchSize, poisonAware())
}

func newHarnessWith(t *testing.T, batchSize int, recognizer fusion.Recognizer) harness {
	t.Helper()
	stores := testdb.NewStores(t)
	logger := slog.New(slog.DiscardHandler)

	extractor, err := fusion.NewExtractor(recognizer)
	require.NoError(t, err)
	pipeline := fusion.NewPipeline(extractor, fusion.NewEnricher(fusion.DefaultGazetteer()))

	h := harness{
		db:        stores.DB,
		events:    stores.Events,
		sources:   stores.Sources,
		entities:  stores.Entities,
		links:     stores.Links,
		relations: stores.Relations,
	}
	tx := stores.Transact
	h.fusion = NewFusion(pipeline, FusionStores{
		Events:    h.events,
		Entities:  h.entities,
		Links:     h.links,
		Relations: h.relations,
	}, tx, logger)

	cfg := config.NewScannerConfig().WithBatchSize(batchSize).WithInterval(10 * time.Millisecond)
	h.scanner = NewScanner(cfg, h.events, h.fusion, logger)
	return h
}

func (h harness) save(t *testing.T, title, summary string) event.Event {
	t.Helper()
	e := event.NewEvent(title, event.NoBody(), event.TypeOther, occurredAt)
	if summary != "" {
		e = e.WithRaw([]byte(`{"summary":"` + summary + `"}`))
	}
	saved, err := h.events.Save(context.Background(), e)
	require.NoError(t, err)
	return saved
}
