package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps index entries in process memory. It backs tests and
// throwaway runs; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []memoryEntry // insertion order, which also decides score ties
	dim     int
}

type memoryEntry struct {
	id       string
	vector   []float32
	content  string
	metadata EntryMetadata
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if len(entry.Vector) == 0 {
			return fmt.Errorf("entry %q has an empty vector", entry.Metadata.SourceID)
		}
		if s.dim == 0 {
			s.dim = len(entry.Vector)
		} else if len(entry.Vector) != s.dim {
			return fmt.Errorf("vector dimension %d does not match store dimension %d", len(entry.Vector), s.dim)
		}
	}
	for _, entry := range entries {
		vec := make([]float32, len(entry.Vector))
		copy(vec, entry.Vector)
		s.entries = append(s.entries, memoryEntry{
			id:       uuid.New().String(),
			vector:   vec,
			content:  entry.Content,
			metadata: entry.Metadata,
		})
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, nil
	}
	if len(vector) != s.dim {
		return nil, fmt.Errorf("query dimension %d does not match store dimension %d", len(vector), s.dim)
	}

	matches := make([]Match, 0, len(s.entries))
	for _, entry := range s.entries {
		matches = append(matches, Match{
			Content:  entry.content,
			Metadata: entry.metadata,
			Score:    cosineSimilarity(vector, entry.vector),
		})
	}
	return rankMatches(matches, k), nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
