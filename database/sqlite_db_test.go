package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "study.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "study.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSQLiteStore_UpsertQueryCount(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	entries := []Entry{
		{
			Vector:  []float32{1, 0},
			Content: "The Calvin cycle fixes carbon.",
			Metadata: EntryMetadata{
				SourceID:    "bio.pdf",
				Page:        4,
				StartOffset: 120,
				ChunkIndex:  2,
			},
		},
		{
			Vector:   []float32{0, 1},
			Content:  "Osmosis moves water.",
			Metadata: EntryMetadata{SourceID: "glossary.json", Key: "osmosis"},
		},
	}
	require.NoError(t, store.Upsert(ctx, entries))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	matches, err := store.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	best := matches[0]
	assert.Equal(t, "The Calvin cycle fixes carbon.", best.Content)
	assert.InDelta(t, 1.0, best.Score, 1e-6)
	assert.Equal(t, "bio.pdf", best.Metadata.SourceID)
	assert.Equal(t, 4, best.Metadata.Page)
	assert.Equal(t, 120, best.Metadata.StartOffset)
	assert.Equal(t, 2, best.Metadata.ChunkIndex)

	assert.Equal(t, "osmosis", matches[1].Metadata.Key)
}

func TestSQLiteStore_QueryEmptyStore(t *testing.T) {
	store := newTestSQLiteStore(t)

	matches, err := store.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, []Entry{
		{Vector: []float32{1, 0, 0}, Content: "survives restart"},
	}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	matches, err := reopened.Query(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "survives restart", matches[0].Content)

	// The embedding dimension is recovered from the stored rows
	err = reopened.Upsert(ctx, []Entry{{Vector: []float32{1, 0}, Content: "wrong dim"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestSQLiteStore_TiesKeepInsertionOrder(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []Entry{
		{Vector: []float32{3, 3}, Content: "first"},
		{Vector: []float32{3, 3}, Content: "second"},
	}))

	matches, err := store.Query(ctx, []float32{1, 1}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Content)
	assert.Equal(t, "second", matches[1].Content)
}

func TestSQLiteStore_DimensionMismatch(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []Entry{{Vector: []float32{1, 0}, Content: "a"}}))

	err := store.Upsert(ctx, []Entry{{Vector: []float32{1, 0, 0}, Content: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")

	_, err = store.Query(ctx, []float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestSQLiteStore_RejectsEmptyVector(t *testing.T) {
	store := newTestSQLiteStore(t)
	err := store.Upsert(context.Background(), []Entry{{Content: "no vector"}})
	assert.Error(t, err)
}

func TestSQLiteStore_NoDeduplication(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	entry := Entry{Vector: []float32{1, 0}, Content: "same content"}
	require.NoError(t, store.Upsert(ctx, []Entry{entry}))
	require.NoError(t, store.Upsert(ctx, []Entry{entry}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
