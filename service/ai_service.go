package service

import (
	"context"
)

// Embedder maps text to a fixed-size vector. Index-time and query-time
// vectors must come from the same model for the similarity scores to be
// comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIService is implemented by providers that offer both capabilities.
type AIService interface {
	Embedder
	Generator
}
