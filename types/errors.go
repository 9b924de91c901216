package types

import "fmt"

// UnsupportedFormatError reports an input whose extension is not one of the
// recognized document formats. The input must be rejected before processing.
type UnsupportedFormatError struct {
	Source   string
	Detected string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Detected == "" {
		return fmt.Sprintf("unsupported format for %q", e.Source)
	}
	return fmt.Sprintf("unsupported format %q for %q", e.Detected, e.Source)
}

// LoadError reports a document whose content could not be extracted
// (corrupt file, unreadable encoding). The caller may retry or skip.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid pipeline configuration, raised
// before any processing starts and never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// IndexingError reports a failed ingestion batch. The batch is treated as
// not indexed as a whole; the caller decides whether to retry.
type IndexingError struct {
	Err error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("indexing: %v", e.Err)
}

func (e *IndexingError) Unwrap() error { return e.Err }

// EmbeddingError reports a failure of the embedding capability.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError reports a failure of the generation capability.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
