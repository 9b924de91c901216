package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/study-assistant-be/database"
	"github.com/studymate/study-assistant-be/types"
)

func seededRetrieval(t *testing.T, contents ...string) *RetrievalService {
	t.Helper()
	store := database.NewMemoryStore()
	for i, content := range contents {
		err := store.Upsert(context.Background(), []database.Entry{{
			Vector:   letterVector(content),
			Content:  content,
			Metadata: database.EntryMetadata{SourceID: "notes.txt", ChunkIndex: i},
		}})
		require.NoError(t, err)
	}
	return NewRetrievalService(&stubEmbedder{}, store)
}

func TestRetrieve_RejectsNonPositiveK(t *testing.T) {
	svc := seededRetrieval(t, "some content")
	for _, k := range []int{0, -3} {
		results, err := svc.Retrieve(context.Background(), "query", k)
		assert.Nil(t, results)

		var confErr *types.ConfigurationError
		require.ErrorAs(t, err, &confErr)
	}
}

func TestRetrieve_EmptyStore(t *testing.T) {
	svc := seededRetrieval(t)

	results, err := svc.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieve_RanksBestFirst(t *testing.T) {
	svc := seededRetrieval(t, "aaaa", "bbbb", "abab")

	results, err := svc.Retrieve(context.Background(), "aaa", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "aaaa", results[0].Content)
	assert.Equal(t, "abab", results[1].Content)
	assert.Equal(t, "bbbb", results[2].Content)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestRetrieve_TruncatesToK(t *testing.T) {
	svc := seededRetrieval(t, "aaaa", "bbbb", "abab")

	results, err := svc.Retrieve(context.Background(), "aaa", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "aaaa", results[0].Content)
	assert.Equal(t, "abab", results[1].Content)
}

func TestRetrieve_KBeyondStored(t *testing.T) {
	svc := seededRetrieval(t, "aaaa", "bbbb")

	results, err := svc.Retrieve(context.Background(), "aaa", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetrieve_TiesKeepInsertionOrder(t *testing.T) {
	// Same letters, same vector, same score
	svc := seededRetrieval(t, "ab", "ba")

	results, err := svc.Retrieve(context.Background(), "ab", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "ab", results[0].Content)
	assert.Equal(t, "ba", results[1].Content)
}

func TestRetrieve_SourceLabels(t *testing.T) {
	store := database.NewMemoryStore()
	err := store.Upsert(context.Background(), []database.Entry{
		{
			Vector:   letterVector("mitochondria"),
			Content:  "mitochondria",
			Metadata: database.EntryMetadata{SourceID: "bio.pdf", Page: 7},
		},
		{
			Vector:   letterVector("ribosome"),
			Content:  "ribosome",
			Metadata: database.EntryMetadata{SourceID: "notes.txt"},
		},
	})
	require.NoError(t, err)

	svc := NewRetrievalService(&stubEmbedder{}, store)
	results, err := svc.Retrieve(context.Background(), "mitochondria", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "bio.pdf (page 7)", results[0].SourceLabel)
	assert.Equal(t, "notes.txt", results[1].SourceLabel)
}

func TestRetrieve_EmbeddingFailure(t *testing.T) {
	store := database.NewMemoryStore()
	svc := NewRetrievalService(&stubEmbedder{err: errors.New("no capacity")}, store)

	results, err := svc.Retrieve(context.Background(), "query", 3)
	assert.Nil(t, results)

	var embErr *types.EmbeddingError
	require.ErrorAs(t, err, &embErr)
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "bio.pdf (page 4)", sourceLabel(database.EntryMetadata{SourceID: "bio.pdf", Page: 4}))
	assert.Equal(t, "notes.txt", sourceLabel(database.EntryMetadata{SourceID: "notes.txt"}))
}
