package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/internal/database"
)

func TestEntities_SearchAndRelations(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10)
	svc := NewEntities(h.entities, h.relations)

	e := h.save(t, "John Smith works at ACME Corp in Sydney", "")
	_, err := h.fusion.FuseEvent(ctx, e)
	require.NoError(t, err)

	people, err := svc.Search(ctx, EntityFilter{Type: entity.TypePerson, Query: "smith"})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "John Smith", people[0].Name())

	page, err := svc.Search(ctx, EntityFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	total, err := svc.Count(ctx, EntityFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	rels, err := svc.Relations(ctx, people[0].ID())
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, entity.LabelEmployedBy, rels[0].Label())

	org, err := svc.Get(ctx, rels[0].DstID())
	require.NoError(t, err)
	assert.Equal(t, "ACME Corp", org.Name())

	orgRels, err := svc.Relations(ctx, org.ID())
	require.NoError(t, err)
	assert.Len(t, orgRels, 1, "relations are found from either end")
}

func TestEntities_NotFound(t *testing.T) {
	h := newHarness(t, 10)
	svc := NewEntities(h.entities, h.relations)

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = svc.Relations(context.Background(), 1)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
