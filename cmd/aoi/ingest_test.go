package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoidb/aoi"
	"github.com/aoidb/aoi/application/service"
	"github.com/aoidb/aoi/infrastructure/nlp"
	"github.com/aoidb/aoi/internal/config"
)

func newTestClient(t *testing.T) *aoi.Client {
	t.Helper()
	dir := t.TempDir()
	client, err := aoi.New(
		aoi.WithSQLite(filepath.Join(dir, "test.db")),
		aoi.WithDataDir(dir),
		aoi.WithRecognizer(nlp.NewPatternRecognizer()),
		aoi.WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIngestLines(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	input := strings.Join([]string{
		`{"title":"Frank works at Customs in Brisbane.","source":"feed"}`,
		``,
		`{"title":"Vessel sighted","body":"MMSI:503123456 loitering","event_type":"Maritime"}`,
	}, "\n")

	summary, err := ingestLines(ctx, client, strings.NewReader(input), true)
	require.NoError(t, err)
	assert.Equal(t, ingestSummary{Stored: 2, Fused: 2}, summary)

	pending, err := client.Events.Unfused(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	found, err := client.Entities.Search(ctx, service.EntityFilter{Query: "503123456"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestIngestLines_WithoutFuse(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	summary, err := ingestLines(ctx, client, strings.NewReader(`{"title":"Quiet day"}`), false)
	require.NoError(t, err)
	assert.Equal(t, ingestSummary{Stored: 1}, summary)

	pending, err := client.Events.Unfused(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestIngestLines_StopsAtBadLine(t *testing.T) {
	client := newTestClient(t)

	input := "{\"title\":\"ok\"}\n{broken\n{\"title\":\"never\"}"
	summary, err := ingestLines(context.Background(), client, strings.NewReader(input), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, summary.Stored)

	_, err = ingestLines(context.Background(), client, strings.NewReader(`{"title":""}`), false)
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestApplyServeOverrides(t *testing.T) {
	cfg := config.NewAppConfig()

	got := applyServeOverrides(cfg, "127.0.0.1", 9999, true)
	assert.Equal(t, "127.0.0.1:9999", got.Addr())
	assert.False(t, got.Scanner().Enabled())

	unchanged := applyServeOverrides(cfg, "", 0, false)
	assert.Equal(t, cfg.Addr(), unchanged.Addr())
	assert.True(t, unchanged.Scanner().Enabled())
}
