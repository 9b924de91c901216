package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/studymate/study-assistant-be/database"
	"github.com/studymate/study-assistant-be/types"
)

// RetrievalService answers similarity queries over the indexed chunks.
type RetrievalService struct {
	embedder Embedder
	store    database.VectorStore
}

func NewRetrievalService(embedder Embedder, store database.VectorStore) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		store:    store,
	}
}

// Retrieve returns up to k chunks ranked by similarity to the query, best
// first. Ties keep insertion order. An empty store yields an empty result,
// not an error; asking for more than is stored returns everything.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]types.RetrievalResult, error) {
	if k < 1 {
		return nil, &types.ConfigurationError{Reason: fmt.Sprintf("result count must be at least 1, got %d", k)}
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &types.EmbeddingError{Err: err}
	}

	matches, err := s.store.Query(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	// Stores already rank matches best first; re-sort stably so ties keep
	// insertion order regardless of backend.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	results := make([]types.RetrievalResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, types.RetrievalResult{
			Content:     match.Content,
			SourceLabel: sourceLabel(match.Metadata),
			Score:       match.Score,
		})
	}
	return results, nil
}

// sourceLabel renders provenance for display: the source id, plus the page
// when the chunk has one.
func sourceLabel(meta database.EntryMetadata) string {
	if meta.Page > 0 {
		return fmt.Sprintf("%s (page %d)", meta.SourceID, meta.Page)
	}
	return meta.SourceID
}
