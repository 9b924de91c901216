package types

import (
	"path/filepath"
	"strings"
)

// Format identifies one of the supported source document formats.
type Format string

const (
	FormatPDF            Format = "pdf"
	FormatText           Format = "text"
	FormatSlideDeck      Format = "slide-deck"
	FormatStructuredJSON Format = "structured-json"
)

// DetectFormat classifies a file path into a Format by extension. It is a
// pure step run before any loading; unknown extensions are rejected with an
// UnsupportedFormatError.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".txt":
		return FormatText, nil
	case ".ppt", ".pptx":
		return FormatSlideDeck, nil
	case ".json":
		return FormatStructuredJSON, nil
	default:
		return "", &UnsupportedFormatError{Source: path, Detected: ext}
	}
}

// SourceDocument is an opaque ingestion input: a file on disk or an
// in-memory buffer, with its classified format and a stable source id used
// for provenance. Immutable once loaded.
type SourceDocument struct {
	SourceID string
	Format   Format
	Path     string // set when the document lives on disk
	Content  []byte // set when the document is held in memory
}

// NewSourceDocumentFromFile classifies a file by extension and builds a
// SourceDocument whose source id is the file's base name.
func NewSourceDocumentFromFile(path string) (SourceDocument, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return SourceDocument{}, err
	}
	return SourceDocument{
		SourceID: filepath.Base(path),
		Format:   format,
		Path:     path,
	}, nil
}

// NewSourceDocument builds an in-memory SourceDocument with an explicit
// format and source id.
func NewSourceDocument(sourceID string, format Format, content []byte) SourceDocument {
	return SourceDocument{
		SourceID: sourceID,
		Format:   format,
		Content:  content,
	}
}

// TextUnit is the normalized output of the document loader: one page, slide
// or JSON entry of extracted text. Never mutated after creation.
type TextUnit struct {
	Content  string
	Metadata UnitMetadata
}

// UnitMetadata carries the provenance of a TextUnit.
type UnitMetadata struct {
	SourceID string
	Page     int    // 1-based page or slide number; 0 means no page
	Key      string // JSON member key when the unit came from an object entry
}

// Chunk is a bounded, overlapping slice of a TextUnit, the unit of
// embedding and storage.
type Chunk struct {
	Content  string
	Metadata ChunkMetadata
}

// ChunkMetadata extends unit provenance with the chunk's position.
type ChunkMetadata struct {
	SourceID    string
	Page        int
	Key         string
	StartOffset int // character offset of the chunk within its TextUnit
	ChunkIndex  int // 0-based index of the chunk within its TextUnit
}

// DocumentServiceConfig contains the chunking configuration.
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}
