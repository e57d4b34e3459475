// Package testdb opens migrated in-memory SQLite databases and the stores
// over them for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/aoidb/aoi/infrastructure/persistence"
	"github.com/aoidb/aoi/internal/database"
)

// New creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	db, err := database.NewDatabase(context.Background(), "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.New: open database: %v", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("testdb.New: auto migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Stores holds every persistence store over one test database.
type Stores struct {
	DB        database.Database
	Events    persistence.EventStore
	Sources   persistence.SourceStore
	Entities  persistence.EntityStore
	Links     persistence.LinkStore
	Relations persistence.RelationStore
}

// NewStores opens a fresh database and builds the stores over it.
func NewStores(t *testing.T) Stores {
	t.Helper()
	db := New(t)
	return Stores{
		DB:        db,
		Events:    persistence.NewEventStore(db),
		Sources:   persistence.NewSourceStore(db),
		Entities:  persistence.NewEntityStore(db),
		Links:     persistence.NewLinkStore(db),
		Relations: persistence.NewRelationStore(db),
	}
}

// Transact runs fn in a transaction on the stores' database.
func (s Stores) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.RunInTransaction(ctx, s.DB, fn)
}
