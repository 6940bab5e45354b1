package retrieve

import (
	"context"
	"fmt"

	"wikidump/internal/embedder"
	"wikidump/internal/index"
)

// VectorBackend queries a dense VectorStore, embedding the query text first.
type VectorBackend struct {
	Store    index.VectorStore
	Embedder embedder.Embedder
}

func (b *VectorBackend) Query(ctx context.Context, query string, k int, filter map[string]string) (Result, error) {
	vec, err := b.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("embed query: %w", err)
	}
	hits, err := b.Store.SimilaritySearch(ctx, vec, k, filter)
	if err != nil {
		return Result{}, err
	}
	res := Result{IDs: make([]string, len(hits)), Scores: make([]float64, len(hits))}
	for i, h := range hits {
		res.IDs[i] = h.ID
		res.Scores[i] = h.Score
	}
	return res, nil
}

// KeywordBackend queries a FullTextSearch index.
type KeywordBackend struct {
	Search index.FullTextSearch
}

func (b *KeywordBackend) Query(ctx context.Context, query string, k int, filter map[string]string) (Result, error) {
	hits, err := b.Search.Search(ctx, query, k, filter)
	if err != nil {
		return Result{}, err
	}
	res := Result{IDs: make([]string, len(hits)), Scores: make([]float64, len(hits))}
	for i, h := range hits {
		res.IDs[i] = h.ID
		res.Scores[i] = h.Score
	}
	return res, nil
}
