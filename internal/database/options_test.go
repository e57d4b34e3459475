package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoidb/aoi/domain/repository"
)

func TestApplyOptions(t *testing.T) {
	ctx := context.Background()
	db := newItemsDB(t)
	for _, name := range []string{"Harbour Board", "harbour_master", "Port Authority", "100% Harbour"} {
		require.NoError(t, insertItem(ctx, db, name))
	}

	names := func(options ...repository.Option) []string {
		var out []string
		require.NoError(t, ApplyOptions(db.Session(ctx).Table("items"), options...).Pluck("name", &out).Error)
		return out
	}

	assert.Equal(t,
		[]string{"100% Harbour", "harbour_master", "Harbour Board"},
		names(repository.WithLike("name", "HARBOUR"), repository.WithOrderDesc("id")),
	)
	assert.Equal(t, []string{"harbour_master"}, names(repository.WithLike("name", "r_m")))
	assert.Equal(t, []string{"100% Harbour"}, names(repository.WithLike("name", "0%")))
	assert.Equal(t,
		[]string{"harbour_master", "Port Authority"},
		names(repository.WithOrderAsc("id"), repository.WithLimit(2), repository.WithOffset(1)),
	)
	assert.Equal(t,
		[]string{"Port Authority"},
		names(repository.WithIDIn([]int64{3, 99}), repository.WithGreaterThan("id", 1)),
	)

	var count int64
	require.NoError(t, ApplyConditions(db.Session(ctx).Table("items"),
		repository.WithLike("name", "harbour"), repository.WithLimit(1)).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}
