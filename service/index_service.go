package service

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/studymate/study-assistant-be/database"
	"github.com/studymate/study-assistant-be/types"
)

// IndexService embeds chunks and writes them to the vector store.
type IndexService struct {
	embedder Embedder
	store    database.VectorStore
}

func NewIndexService(embedder Embedder, store database.VectorStore) *IndexService {
	return &IndexService{
		embedder: embedder,
		store:    store,
	}
}

// Index embeds every chunk, then upserts the whole batch. Embedding runs
// before any write, so a failure anywhere leaves the store untouched.
// Re-ingesting the same content adds new entries; the store does not
// deduplicate.
func (s *IndexService) Index(ctx context.Context, chunks []types.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	entries := make([]database.Entry, 0, len(chunks))
	for i := range chunks {
		vector, err := s.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return 0, &types.IndexingError{Err: &types.EmbeddingError{Err: err}}
		}
		entries = append(entries, database.Entry{
			Vector:  vector,
			Content: chunks[i].Content,
			Metadata: database.EntryMetadata{
				SourceID:    chunks[i].Metadata.SourceID,
				Page:        chunks[i].Metadata.Page,
				Key:         chunks[i].Metadata.Key,
				StartOffset: chunks[i].Metadata.StartOffset,
				ChunkIndex:  chunks[i].Metadata.ChunkIndex,
			},
		})
	}

	if err := s.store.Upsert(ctx, entries); err != nil {
		return 0, &types.IndexingError{Err: err}
	}
	log.Info("indexed chunks", "count", len(entries))
	return len(entries), nil
}
