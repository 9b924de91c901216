package service

import (
	"fmt"

	"github.com/studymate/study-assistant-be/types"
)

// DefaultDocumentServiceConfig is the chunking configuration used when none
// is provided.
var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 1024,
	OverlapSize:  200,
}

// ChunkService splits text units into overlapping chunks on natural
// boundaries.
type ChunkService struct {
	maxChunkSize int // Maximum size of each text chunk
	overlapSize  int // Size of overlap between chunks
}

// NewChunkService validates the configuration up front, so a bad overlap is
// rejected before any document is processed.
func NewChunkService(config types.DocumentServiceConfig) (*ChunkService, error) {
	if config.MaxChunkSize <= 0 {
		return nil, &types.ConfigurationError{Reason: fmt.Sprintf("max chunk size must be positive, got %d", config.MaxChunkSize)}
	}
	if config.OverlapSize < 0 {
		return nil, &types.ConfigurationError{Reason: fmt.Sprintf("overlap size must not be negative, got %d", config.OverlapSize)}
	}
	if config.OverlapSize >= config.MaxChunkSize {
		return nil, &types.ConfigurationError{Reason: fmt.Sprintf("overlap size %d must be smaller than max chunk size %d", config.OverlapSize, config.MaxChunkSize)}
	}
	return &ChunkService{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
	}, nil
}

// Split chunks every unit, keeping unit order.
func (s *ChunkService) Split(units []types.TextUnit) ([]types.Chunk, error) {
	var chunks []types.Chunk
	for i := range units {
		unitChunks, err := s.SplitUnit(&units[i])
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, unitChunks...)
	}
	return chunks, nil
}

// SplitUnit splits one unit into overlapping chunks. Chunks are unmodified
// slices of the unit text, so concatenating them with the overlaps removed
// reproduces the text exactly.
func (s *ChunkService) SplitUnit(unit *types.TextUnit) ([]types.Chunk, error) {
	text := unit.Content
	textLen := len(text)
	if textLen == 0 {
		return nil, nil
	}

	// Return early if the text fits in one chunk
	if textLen <= s.maxChunkSize {
		return []types.Chunk{s.newChunk(unit, text, 0, 0)}, nil
	}

	var chunks []types.Chunk
	currentPos := 0
	for currentPos < textLen {
		chunkEnd := currentPos + s.maxChunkSize
		if chunkEnd >= textLen {
			// Handle last chunk
			chunks = append(chunks, s.newChunk(unit, text[currentPos:], currentPos, len(chunks)))
			break
		}

		end := s.findSplit(text, currentPos, chunkEnd)
		chunks = append(chunks, s.newChunk(unit, text[currentPos:end], currentPos, len(chunks)))

		// Next chunk starts overlapSize characters back from this end
		currentPos = end - s.overlapSize
	}
	return chunks, nil
}

// findSplit picks the end of the chunk starting at start, preferring the
// nearest paragraph break before the size limit, then a sentence end, then
// whitespace, then a hard cut at the limit. A boundary only counts when the
// next chunk would still start strictly after the current one; otherwise the
// search falls through to the next boundary class.
func (s *ChunkService) findSplit(text string, start, limit int) int {
	minEnd := start + s.overlapSize + 1

	// Paragraph break, chunk keeps the blank line
	for i := limit - 2; i > start; i-- {
		if text[i] == '\n' && text[i+1] == '\n' {
			if end := i + 2; end >= minEnd {
				return end
			}
			break
		}
	}

	// Sentence end, chunk keeps the punctuation
	for i := limit - 1; i > start; i-- {
		if text[i] == '.' || text[i] == '?' || text[i] == '!' {
			if end := i + 1; end >= minEnd {
				return end
			}
			break
		}
	}

	// Whitespace
	for i := limit - 1; i > start; i-- {
		if text[i] == ' ' || text[i] == '\n' || text[i] == '\t' {
			if i >= minEnd {
				return i
			}
			break
		}
	}

	return limit
}

func (s *ChunkService) newChunk(unit *types.TextUnit, content string, offset, index int) types.Chunk {
	return types.Chunk{
		Content: content,
		Metadata: types.ChunkMetadata{
			SourceID:    unit.Metadata.SourceID,
			Page:        unit.Metadata.Page,
			Key:         unit.Metadata.Key,
			StartOffset: offset,
			ChunkIndex:  index,
		},
	}
}
