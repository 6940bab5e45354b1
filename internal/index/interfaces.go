package index

import "context"

// SearchResult is one keyword-search hit.
type SearchResult struct {
	ID       string
	Score    float64
	Snippet  string
	Text     string
	Metadata map[string]string
}

// VectorResult is one similarity-search hit.
type VectorResult struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// FullTextSearch is the keyword half of the index, one of the two
// interchangeable backends behind Retriever. filter is matched against a
// hit's metadata as a conjunction of equalities.
type FullTextSearch interface {
	Index(ctx context.Context, id, text string, metadata map[string]string) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, k int, filter map[string]string) ([]SearchResult, error)
}

// VectorStore is the dense half of the index: cosine (or configured metric)
// similarity over chunk embeddings, backed by pgvector or Qdrant.
type VectorStore interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error
	Delete(ctx context.Context, id string) error
	SimilaritySearch(ctx context.Context, vector []float32, k int, filter map[string]string) ([]VectorResult, error)
	Dimension() int
}
