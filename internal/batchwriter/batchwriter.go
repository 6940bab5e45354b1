// Package batchwriter buffers outbound chunks, dedups their embeddings
// through a local cache, and ships them into the downstream index. The
// embedding call is retried on failure; an index write error is returned
// to the caller without retry.
package batchwriter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wikidump/internal/embedder"
	"wikidump/internal/index"
)

// EmbedCache is the subset of store.EmbedCache BatchWriter depends on,
// declared locally so tests can substitute an in-memory fake instead of a
// live Postgres connection.
type EmbedCache interface {
	Get(ctx context.Context, id string) ([]float32, bool, error)
	UpsertBulk(ctx context.Context, items map[string][]float32) error
}

// Document is one buffered unit: a chunk's id, text, and index metadata.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// BatchWriter accumulates documents up to BatchSize, then flushes them
// through EmbedCache dedup, the configured Embedder, and into Vector (and,
// if set, Search). Flush is safe to call concurrently with AddDocument.
type BatchWriter struct {
	BatchSize int
	BaseDelay time.Duration
	MaxDelay  time.Duration

	cache    EmbedCache
	embedder embedder.Embedder
	vector   index.VectorStore
	search   index.FullTextSearch

	mu  sync.Mutex
	buf []Document
}

// New constructs a BatchWriter. search may be nil if no keyword index is
// configured for this run.
func New(cache EmbedCache, emb embedder.Embedder, vector index.VectorStore, search index.FullTextSearch, batchSize int) *BatchWriter {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &BatchWriter{
		BatchSize: batchSize,
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
		cache:     cache,
		embedder:  emb,
		vector:    vector,
		search:    search,
	}
}

// AddDocument enqueues a document locally, flushing when the buffer reaches
// BatchSize. It reports whether a flush happened.
func (w *BatchWriter) AddDocument(ctx context.Context, id, text string, metadata map[string]string) (bool, error) {
	w.mu.Lock()
	w.buf = append(w.buf, Document{ID: id, Text: text, Metadata: metadata})
	full := len(w.buf) >= w.BatchSize
	w.mu.Unlock()

	if full {
		return w.Flush(ctx)
	}
	return false, nil
}

// Flush embeds and upserts every buffered document, skipping the embed call
// for any id EmbedCache already has a vector for. It reports whether any
// work was done.
func (w *BatchWriter) Flush(ctx context.Context) (bool, error) {
	w.mu.Lock()
	docs := w.buf
	w.buf = nil
	w.mu.Unlock()

	if len(docs) == 0 {
		return false, nil
	}

	vectors := make(map[string][]float32, len(docs))
	var uncached []Document
	for _, d := range docs {
		v, ok, err := w.cache.Get(ctx, d.ID)
		if err != nil {
			return false, fmt.Errorf("batchwriter: embed cache lookup for %s: %w", d.ID, err)
		}
		if ok {
			vectors[d.ID] = v
			continue
		}
		uncached = append(uncached, d)
	}

	if len(uncached) > 0 {
		texts := make([]string, len(uncached))
		for i, d := range uncached {
			texts[i] = d.Text
		}
		embeddings, err := w.embedWithRetry(ctx, texts)
		if err != nil {
			return false, err
		}
		fresh := make(map[string][]float32, len(uncached))
		for i, d := range uncached {
			vectors[d.ID] = embeddings[i]
			fresh[d.ID] = embeddings[i]
		}
		if err := w.cache.UpsertBulk(ctx, fresh); err != nil {
			return false, fmt.Errorf("batchwriter: cache newly embedded vectors: %w", err)
		}
	}

	for _, d := range docs {
		if err := w.vector.Upsert(ctx, d.ID, vectors[d.ID], d.Metadata); err != nil {
			return false, fmt.Errorf("batchwriter: upsert vector for %s: %w", d.ID, err)
		}
		if w.search != nil {
			if err := w.search.Index(ctx, d.ID, d.Text, d.Metadata); err != nil {
				return false, fmt.Errorf("batchwriter: index keyword text for %s: %w", d.ID, err)
			}
		}
	}
	return true, nil
}

// embedWithRetry calls the embedder, retrying with bounded exponential
// backoff on failure and re-probing reachability before each retry. It
// keeps retrying until success or ctx cancellation, per the pipeline's
// retry-indefinitely-until-cancelled contract.
func (w *BatchWriter) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	delay := w.BaseDelay
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vecs, err := w.embedder.EmbedDocuments(ctx, texts)
		if err == nil {
			return vecs, nil
		}

		if werr := w.sleep(ctx, delay); werr != nil {
			return nil, werr
		}
		for w.embedder.Ping(ctx) != nil {
			if werr := w.sleep(ctx, delay); werr != nil {
				return nil, werr
			}
		}

		delay *= 2
		if delay > w.MaxDelay {
			delay = w.MaxDelay
		}
	}
}

func (w *BatchWriter) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
