// Package embedder wraps the remote embedding endpoint BatchWriter and the
// vector Retriever backend call through, plus a deterministic stand-in used
// by tests that do not exercise a real network endpoint.
package embedder

import "context"

// Embedder turns text into fixed-dimension vectors.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Ping(ctx context.Context) error
}
