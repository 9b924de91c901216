package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Zero vectors never divide by zero
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 1}, []float32{0, 0}))
}

func TestRankMatches(t *testing.T) {
	matches := []Match{
		{Content: "low", Score: 0.1},
		{Content: "tie one", Score: 0.5},
		{Content: "high", Score: 0.9},
		{Content: "tie two", Score: 0.5},
	}

	ranked := rankMatches(matches, 3)
	assert.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Content)
	assert.Equal(t, "tie one", ranked[1].Content)
	assert.Equal(t, "tie two", ranked[2].Content)
}

func TestRankMatches_KBeyondLength(t *testing.T) {
	matches := []Match{{Content: "only", Score: 0.4}}
	ranked := rankMatches(matches, 10)
	assert.Len(t, ranked, 1)
}
