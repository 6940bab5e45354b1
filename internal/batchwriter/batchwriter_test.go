package batchwriter

import (
	"context"
	"errors"
	"testing"

	"wikidump/internal/index"
)

type fakeCache struct {
	vectors map[string][]float32
	puts    map[string][]float32
}

func newFakeCache(seed map[string][]float32) *fakeCache {
	return &fakeCache{vectors: seed, puts: map[string][]float32{}}
}

func (c *fakeCache) Get(_ context.Context, id string) ([]float32, bool, error) {
	v, ok := c.vectors[id]
	return v, ok, nil
}

func (c *fakeCache) UpsertBulk(_ context.Context, items map[string][]float32) error {
	for id, v := range items {
		c.puts[id] = v
	}
	return nil
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (e *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vs, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (e *fakeEmbedder) Ping(_ context.Context) error { return nil }

type fakeVector struct {
	upserts map[string][]float32
}

func newFakeVector() *fakeVector { return &fakeVector{upserts: map[string][]float32{}} }

func (v *fakeVector) Upsert(_ context.Context, id string, vector []float32, _ map[string]string) error {
	v.upserts[id] = vector
	return nil
}
func (v *fakeVector) Delete(_ context.Context, id string) error { delete(v.upserts, id); return nil }
func (v *fakeVector) SimilaritySearch(context.Context, []float32, int, map[string]string) ([]index.VectorResult, error) {
	return nil, nil
}
func (v *fakeVector) Dimension() int { return 3 }

func TestFlush_SkipsEmbedForCachedID(t *testing.T) {
	cache := newFakeCache(map[string][]float32{"D1": {9, 9, 9}})
	emb := &fakeEmbedder{}
	vec := newFakeVector()

	w := New(cache, emb, vec, nil, 10)
	if _, err := w.AddDocument(context.Background(), "D1", "text", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	did, err := w.Flush(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !did {
		t.Fatal("expected Flush to report work done")
	}
	if emb.calls != 0 {
		t.Fatalf("expected embedder not to be called for a cached id, got %d calls", emb.calls)
	}
	if got := vec.upserts["D1"]; len(got) != 3 || got[0] != 9 {
		t.Fatalf("expected the cached vector to be upserted unchanged, got %v", got)
	}
}

func TestFlush_EmbedsUncachedAndCaches(t *testing.T) {
	cache := newFakeCache(nil)
	emb := &fakeEmbedder{}
	vec := newFakeVector()

	w := New(cache, emb, vec, nil, 10)
	w.AddDocument(context.Background(), "D2", "text", nil)
	if _, err := w.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb.calls != 1 {
		t.Fatalf("expected embedder to be called once, got %d", emb.calls)
	}
	if _, ok := cache.puts["D2"]; !ok {
		t.Fatal("expected the freshly embedded vector to be cached")
	}
}

func TestAddDocument_FlushesAtBatchSize(t *testing.T) {
	cache := newFakeCache(nil)
	emb := &fakeEmbedder{}
	vec := newFakeVector()

	w := New(cache, emb, vec, nil, 2)
	did, _ := w.AddDocument(context.Background(), "A", "a", nil)
	if did {
		t.Fatal("expected no flush before batch size reached")
	}
	did, err := w.AddDocument(context.Background(), "B", "b", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !did {
		t.Fatal("expected a flush once batch size is reached")
	}
	if len(vec.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(vec.upserts))
	}
}

func TestFlush_Empty(t *testing.T) {
	w := New(newFakeCache(nil), &fakeEmbedder{}, newFakeVector(), nil, 10)
	did, err := w.Flush(context.Background())
	if err != nil || did {
		t.Fatalf("expected no-op flush on empty buffer, got did=%v err=%v", did, err)
	}
}

func TestEmbedWithRetry_StopsOnContextCancel(t *testing.T) {
	cache := newFakeCache(nil)
	emb := &fakeEmbedder{err: errors.New("transient")}
	vec := newFakeVector()

	w := New(cache, emb, vec, nil, 10)
	w.BaseDelay = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w.AddDocument(ctx, "D3", "text", nil)
	_, err := w.Flush(ctx)
	if err == nil {
		t.Fatal("expected an error once the context is cancelled")
	}
}
