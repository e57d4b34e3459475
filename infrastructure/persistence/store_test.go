package persistence_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/repository"
	"github.com/aoidb/aoi/infrastructure/persistence"
	"github.com/aoidb/aoi/internal/database"
	"github.com/aoidb/aoi/internal/testdb"
)

var occurred = time.Date(2024, 2, 14, 9, 30, 0, 0, time.UTC)

func saveEvent(t *testing.T, store persistence.EventStore, title string) event.Event {
	t.Helper()
	e, err := store.Save(context.Background(), event.NewEvent(title, event.NoBody(), event.TypeOther, occurred))
	require.NoError(t, err)
	require.NotZero(t, e.ID())
	return e
}

func TestEntityStore_EnsureIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEntityStore(testdb.New(t))

	first, err := store.Ensure(ctx, entity.TypeOrg, "ACME Corp", nil)
	require.NoError(t, err)
	second, err := store.Ensure(ctx, entity.TypeOrg, "acme corp", nil)
	require.NoError(t, err)
	person, err := store.Ensure(ctx, entity.TypePerson, "acme corp", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, person, "type is part of the identity")

	got, err := store.FindOne(ctx, repository.WithID(first))
	require.NoError(t, err)
	assert.Equal(t, "ACME Corp", got.Name(), "first-seen surface form is kept")
	assert.Equal(t, "acme corp", got.CanonicalKey())

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEntityStore_EnsureFillsMissingAttrs(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEntityStore(testdb.New(t))

	id, err := store.Ensure(ctx, entity.TypeLocation, "Sydney", map[string]any{entity.AttrJurisdiction: "manual"})
	require.NoError(t, err)
	_, err = store.Ensure(ctx, entity.TypeLocation, "sydney", map[string]any{
		entity.AttrJurisdiction: "AU-NSW",
		entity.AttrLat:          -33.8688,
	})
	require.NoError(t, err)

	got, err := store.FindOne(ctx, repository.WithID(id))
	require.NoError(t, err)
	attrs := got.Attrs()
	assert.Equal(t, "manual", attrs[entity.AttrJurisdiction])
	assert.InDelta(t, -33.8688, attrs[entity.AttrLat], 1e-9)
}

func TestEntityStore_EnsureRejectsBlankName(t *testing.T) {
	_, err := persistence.NewEntityStore(testdb.New(t)).Ensure(context.Background(), entity.TypeOrg, "  ", nil)
	assert.ErrorIs(t, err, persistence.ErrEmptyName)
}

func TestEntityStore_EnsureConcurrentCallersConverge(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEntityStore(testdb.New(t))

	var wg sync.WaitGroup
	ids := make([]int64, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "Globex"
			if i%2 == 1 {
				name = "GLOBEX"
			}
			ids[i], errs[i] = store.Ensure(ctx, entity.TypeOrg, name, nil)
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestLinkStore_DuplicateTripleIsNoop(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	events := persistence.NewEventStore(db)
	entities := persistence.NewEntityStore(db)
	links := persistence.NewLinkStore(db)

	e := saveEvent(t, events, "Vessel sighted")
	id, err := entities.Ensure(ctx, entity.TypeMMSI, "123456789", nil)
	require.NoError(t, err)

	l := entity.NewLink(e.ID(), id, string(entity.ProvenanceRegex)).WithScore(0.9)
	require.NoError(t, links.Link(ctx, l))
	require.NoError(t, links.Link(ctx, l.WithScore(0.1)))
	require.NoError(t, links.Link(ctx, entity.NewLink(e.ID(), id, "MENTIONS")))

	count, err := links.Count(ctx, entity.WithEventID(e.ID()), entity.WithReason(string(entity.ProvenanceRegex)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := links.FindOne(ctx, entity.WithEventID(e.ID()), entity.WithReason(string(entity.ProvenanceRegex)))
	require.NoError(t, err)
	score, ok := stored.Score()
	require.True(t, ok)
	assert.Equal(t, 0.9, score, "duplicate inserts never update")

	total, err := links.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRelationStore_UpsertAdvancesLastSeen(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	entities := persistence.NewEntityStore(db)

	src, err := entities.Ensure(ctx, entity.TypePerson, "John Smith", nil)
	require.NoError(t, err)
	dst, err := entities.Ensure(ctx, entity.TypeOrg, "ACME Corp", nil)
	require.NoError(t, err)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := t0
	relations := persistence.NewRelationStore(db).WithClock(func() time.Time { return clock })

	require.NoError(t, relations.Upsert(ctx, src, dst, entity.LabelEmployedBy))
	clock = t0.Add(time.Hour)
	require.NoError(t, relations.Upsert(ctx, src, dst, entity.LabelEmployedBy))

	all, err := relations.Find(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].FirstSeen().Equal(t0))
	assert.True(t, all[0].LastSeen().Equal(t0.Add(time.Hour)))
	assert.Equal(t, src, all[0].SrcID())
	assert.Equal(t, dst, all[0].DstID())
}

func TestRelationStore_UnresolvedEndpointPanics(t *testing.T) {
	relations := persistence.NewRelationStore(testdb.New(t))
	assert.Panics(t, func() {
		_ = relations.Upsert(context.Background(), 0, 1, entity.LabelEmployedBy)
	})
}

func TestEventStore_SaveUpsertsOnIdentity(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	sources := persistence.NewSourceStore(db)
	events := persistence.NewEventStore(db)

	src, err := sources.Ensure(ctx, event.NewSource("bom", "https://example.org/bom.xml", "rss"))
	require.NoError(t, err)
	again, err := sources.Ensure(ctx, event.NewSource("bom", "", ""))
	require.NoError(t, err)
	assert.Equal(t, src.ID(), again.ID())

	base := event.NewEvent("Flood watch", event.NoBody(), event.TypeWeather, occurred).WithSourceID(src.ID())
	first, err := events.Save(ctx, base.WithRaw([]byte(`{"summary":"rising"}`)))
	require.NoError(t, err)
	second, err := events.Save(ctx, base.WithRaw([]byte(`{"summary":"peaked"}`)).WithSeverity("major"))
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, "peaked", second.Body().Text())
	assert.Equal(t, event.BodySummary, second.Body().Kind())
	assert.Equal(t, "major", second.Severity())
	assert.JSONEq(t, `{"summary":"peaked"}`, string(second.Raw()))

	count, err := events.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEventStore_FindUnfused(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	events := persistence.NewEventStore(db)
	entities := persistence.NewEntityStore(db)
	links := persistence.NewLinkStore(db)

	e1 := saveEvent(t, events, "one")
	e2 := saveEvent(t, events, "two")
	e3 := saveEvent(t, events, "three")
	e4 := saveEvent(t, events, "four")

	id, err := entities.Ensure(ctx, entity.TypeOrg, "Org", nil)
	require.NoError(t, err)
	require.NoError(t, links.Link(ctx, entity.NewLink(e2.ID(), id, "ner")))
	require.NoError(t, events.MarkFused(ctx, e3.ID(), 0))

	unfused, err := events.FindUnfused(ctx, 0)
	require.NoError(t, err)
	require.Len(t, unfused, 2)
	assert.Equal(t, []int64{e1.ID(), e4.ID()}, []int64{unfused[0].ID(), unfused[1].ID()})

	limited, err := events.FindUnfused(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, e1.ID(), limited[0].ID())

	again, err := events.FindUnfused(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, unfused, again, "stable across repeated calls")

	after, err := events.FindUnfused(ctx, 10, event.WithIDAfter(e1.ID()))
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, e4.ID(), after[0].ID())
}

func TestEntityStore_FindLinkedOrdering(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	events := persistence.NewEventStore(db)
	entities := persistence.NewEntityStore(db)
	links := persistence.NewLinkStore(db)

	e := saveEvent(t, events, "mixed")
	bob, _ := entities.Ensure(ctx, entity.TypePerson, "Bob", nil)
	alice, _ := entities.Ensure(ctx, entity.TypePerson, "Alice", nil)
	imo, _ := entities.Ensure(ctx, entity.TypeIMO, "9876543", nil)
	require.NoError(t, links.Link(ctx, entity.NewLink(e.ID(), bob, "ner").WithScore(0.8)))
	require.NoError(t, links.Link(ctx, entity.NewLink(e.ID(), alice, "ner").WithScore(0.8)))
	require.NoError(t, links.Link(ctx, entity.NewLink(e.ID(), imo, "regex").WithScore(0.9)))

	linked, err := entities.FindLinked(ctx, e.ID())
	require.NoError(t, err)
	require.Len(t, linked, 3)
	assert.Equal(t, "9876543", linked[0].Entity().Name())
	assert.Equal(t, "Alice", linked[1].Entity().Name())
	assert.Equal(t, "Bob", linked[2].Entity().Name())
}

func TestLinkStore_Memberships(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	events := persistence.NewEventStore(db)
	entities := persistence.NewEntityStore(db)
	links := persistence.NewLinkStore(db)

	e1 := saveEvent(t, events, "e1")
	e2 := saveEvent(t, events, "e2")
	org, _ := entities.Ensure(ctx, entity.TypeOrg, "Org", nil)
	alice, _ := entities.Ensure(ctx, entity.TypePerson, "Alice", nil)
	for _, l := range []entity.Link{
		entity.NewLink(e2.ID(), org, "ner"),
		entity.NewLink(e2.ID(), org, "MENTIONS"),
		entity.NewLink(e1.ID(), org, "ner"),
		entity.NewLink(e1.ID(), alice, "ner"),
	} {
		require.NoError(t, links.Link(ctx, l))
	}

	ids, err := links.EventIDsForEntity(ctx, org, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{e1.ID(), e2.ID()}, ids)

	ids, err = links.EventIDsForEntity(ctx, org, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{e1.ID()}, ids)

	members, err := links.MembershipsForEvents(ctx, []int64{e1.ID(), e2.ID()}, 10)
	require.NoError(t, err)
	assert.Len(t, members, 3, "reasons collapse into one membership")
	assert.Equal(t, e1.ID(), members[0].EventID)

	none, err := links.MembershipsForEvents(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestValidateSchema(t *testing.T) {
	assert.NoError(t, persistence.ValidateSchema(testdb.New(t)))
}

func TestValidateSchema_ReportsMissingColumns(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	require.NoError(t, db.Session(ctx).Exec("ALTER TABLE events DROP COLUMN severity").Error)
	require.NoError(t, db.Session(ctx).Exec("ALTER TABLE events DROP COLUMN lon").Error)

	err := persistence.ValidateSchema(db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "events.severity")
	assert.Contains(t, err.Error(), "events.lon")
}

func TestEventStore_NotFound(t *testing.T) {
	_, err := persistence.NewEventStore(testdb.New(t)).FindOne(context.Background(), repository.WithID(42))
	assert.ErrorIs(t, err, database.ErrNotFound)
}
