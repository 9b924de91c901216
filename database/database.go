package database

import (
	"context"
	"math"
	"sort"
)

// Entry is a chunk plus its embedding vector, handed to a vector store for
// persistence. The store assigns its own internal id and keeps the full
// metadata for provenance display.
type Entry struct {
	Vector   []float32
	Content  string
	Metadata EntryMetadata
}

// EntryMetadata carries the provenance of an indexed chunk.
type EntryMetadata struct {
	SourceID    string
	Page        int // 1-based page or slide number; 0 means no page
	Key         string
	StartOffset int
	ChunkIndex  int
}

// Match is one similarity-search hit.
type Match struct {
	Content  string
	Metadata EntryMetadata
	Score    float64
}

// VectorStore is the persistence capability consumed by the pipeline.
// Implementations serialize writes; reads may run concurrently. Query
// returns matches ordered by descending score, ties kept in insertion
// order, and an empty slice when the store holds no entries.
type VectorStore interface {
	Upsert(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// cosineSimilarity computes the cosine of the angle between two vectors of
// equal length. Zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rankMatches orders matches by descending score with a stable sort, so
// ties keep their insertion order, and truncates to k.
func rankMatches(matches []Match, k int) []Match {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches
}
