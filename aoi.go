// Package aoi fuses free-text incident events into a graph of entities and
// relations, and answers neighbourhood queries over that graph.
//
// Basic usage:
//
//	client, err := aoi.New(
//	    aoi.WithSQLite(".aoi/aoi.db"),
//	    aoi.WithNERConfig(config.NewNERConfigWithOptions(config.WithBackend("prose"))),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Store an event and fuse it
//	e, err := client.Events.Ingest(ctx, service.IngestRequest{
//	    Title: "John Smith works at ACME Corp in Sydney.",
//	})
//	_, err = client.Fusion.FuseEvent(ctx, e)
//
//	// Explore the neighbourhood of an extracted entity
//	found, err := client.Entities.Search(ctx, service.EntityFilter{Query: "acme"})
//	n, err := client.Graph.Neighborhood(ctx, found[0].ID(), 0)
package aoi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/domain/fusion"
	"github.com/aoidb/aoi/infrastructure/gazetteer"
	"github.com/aoidb/aoi/infrastructure/nlp"
	"github.com/aoidb/aoi/infrastructure/persistence"
	"github.com/aoidb/aoi/internal/config"
	"github.com/aoidb/aoi/internal/database"
)

// Client is the main entry point for the aoi library.
// The scanner starts on creation when its configuration enables it.
//
// Access resources via struct fields:
//
//	client.Events.Get(ctx, id)
//	client.Entities.Search(ctx, service.EntityFilter{Query: "acme"})
//	client.Graph.Neighborhood(ctx, id, 0)
type Client struct {
	Events   *service.Events
	Entities *service.Entities
	Fusion   *service.Fusion
	Scanner  *service.Scanner
	Graph    *service.Graph

	db      database.Database
	logger  *slog.Logger
	dataDir string
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dbURL == "" {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = config.DefaultLogger()
	}

	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool := cfg.pool
	if err := db.ConfigurePool(pool.MaxOpen(), pool.MaxIdle(), pool.Lifetime()); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("configure pool: %w", err), errClose)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	if err := persistence.ValidateSchema(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	// The recognizer may load a model session, so it is built only once the
	// database is known to be usable.
	recognizer, err := buildRecognizer(cfg, dataDir)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("load recognizer: %w", err), errClose)
	}

	places, err := buildGazetteer(cfg)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("load gazetteer: %w", err), errClose)
	}

	extractor, err := fusion.NewExtractor(recognizer)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("create extractor: %w", err), errClose)
	}
	pipeline := fusion.NewPipeline(extractor, fusion.NewEnricher(places))

	eventStore := persistence.NewEventStore(db)
	sourceStore := persistence.NewSourceStore(db)
	entityStore := persistence.NewEntityStore(db)
	linkStore := persistence.NewLinkStore(db)
	relationStore := persistence.NewRelationStore(db)

	transactor := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return database.RunInTransaction(ctx, db, fn)
	}

	client := &Client{
		db:      db,
		logger:  logger,
		dataDir: dataDir,
	}

	client.Events = service.NewEvents(eventStore, sourceStore, entityStore)
	client.Entities = service.NewEntities(entityStore, relationStore)
	client.Fusion = service.NewFusion(pipeline, service.FusionStores{
		Events:    eventStore,
		Entities:  entityStore,
		Links:     linkStore,
		Relations: relationStore,
	}, transactor, logger)
	client.Scanner = service.NewScanner(cfg.scanner, eventStore, client.Fusion, logger)
	client.Graph = service.NewGraph(linkStore, entityStore, eventStore, cfg.graphMax)

	client.Scanner.Start(ctx)

	return client, nil
}

// Close stops the scanner and releases the database.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Scanner.Stop()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("aoi client closed")
	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// DataDir returns the prepared data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

func buildRecognizer(cfg *clientConfig, dataDir string) (fusion.Recognizer, error) {
	if cfg.recognizer != nil {
		return cfg.recognizer, nil
	}

	ner := cfg.ner
	modelDir := ner.ModelDir()
	if modelDir == "" {
		modelDir = filepath.Join(dataDir, "models")
	}

	return nlp.New(nlp.Config{
		Backend:  nlp.Backend(ner.Backend()),
		ModelDir: modelDir,
		OpenAI: nlp.OpenAIConfig{
			APIKey:     ner.OpenAIAPIKey(),
			BaseURL:    ner.OpenAIBaseURL(),
			Model:      ner.OpenAIModel(),
			Timeout:    ner.OpenAITimeout(),
			MaxRetries: ner.OpenAIMaxRetries(),
			CacheDir:   ner.OpenAICacheDir(),
		},
	})
}

func buildGazetteer(cfg *clientConfig) (fusion.Gazetteer, error) {
	if cfg.gazetteer != nil {
		return cfg.gazetteer, nil
	}
	if cfg.gazetteerFile != "" {
		return gazetteer.Load(cfg.gazetteerFile)
	}
	return fusion.DefaultGazetteer(), nil
}
