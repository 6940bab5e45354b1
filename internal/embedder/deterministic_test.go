package embedder

import (
	"context"
	"math"
	"testing"
)

func TestDeterministicEmbedder_Deterministic(t *testing.T) {
	e := NewDeterministic(32, 7)
	v1, err := e.EmbedQuery(context.Background(), "Universe, totality of space and time.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := e.EmbedQuery(context.Background(), "Universe, totality of space and time.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v1) != 32 {
		t.Fatalf("expected dimension 32, got %d", len(v1))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("embeddings diverged at index %d: %v vs %v", i, v1[i], v2[i])
		}
	}
}

func TestDeterministicEmbedder_Normalized(t *testing.T) {
	e := NewDeterministic(16, 0)
	v, err := e.EmbedQuery(context.Background(), "a distinct phrase")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Fatalf("expected unit-norm vector, got squared norm %v", sum)
	}
}

func TestDeterministicEmbedder_Ping(t *testing.T) {
	e := NewDeterministic(8, 0)
	if err := e.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
