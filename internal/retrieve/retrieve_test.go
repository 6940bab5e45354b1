package retrieve

import (
	"context"
	"testing"
)

type fakeBackend struct {
	byFilter map[string]Result // keyed by filter["Language"]+"|"+filter["QID"]
	calls    []map[string]string
}

func key(filter map[string]string) string {
	return filter["Language"] + "|" + filter["QID"]
}

func (b *fakeBackend) Query(_ context.Context, _ string, k int, filter map[string]string) (Result, error) {
	b.calls = append(b.calls, filter)
	res := b.byFilter[key(filter)]
	if k > 0 && len(res.IDs) > k {
		res.IDs = res.IDs[:k]
		res.Scores = res.Scores[:k]
	}
	return res, nil
}

func TestBatchRetrieve_NoLanguageFilter(t *testing.T) {
	backend := &fakeBackend{byFilter: map[string]Result{
		"|": {IDs: []string{"Q1_en_1", "Q2_en_1"}, Scores: []float64{0.9, 0.5}},
	}}
	r := New(backend)

	results, err := r.BatchRetrieve(context.Background(), []string{"universe"}, 5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || len(results[0].IDs) != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestBatchRetrieve_LanguageDisjunctionMerges(t *testing.T) {
	backend := &fakeBackend{byFilter: map[string]Result{
		"en|": {IDs: []string{"Q1_en_1"}, Scores: []float64{0.4}},
		"fr|": {IDs: []string{"Q1_fr_1", "Q2_fr_1"}, Scores: []float64{0.9, 0.3}},
	}}
	r := New(backend)

	results, err := r.BatchRetrieve(context.Background(), []string{"univers"}, 5, "en,fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := results[0]
	if len(got.IDs) != 3 {
		t.Fatalf("expected 3 merged ids, got %v", got.IDs)
	}
	if got.IDs[0] != "Q1_fr_1" {
		t.Fatalf("expected highest-scored id first, got %v", got.IDs)
	}
}

func TestBatchRetrieve_LanguageDisjunctionCapsAtK(t *testing.T) {
	backend := &fakeBackend{byFilter: map[string]Result{
		"en|": {IDs: []string{"A", "B"}, Scores: []float64{0.9, 0.8}},
		"fr|": {IDs: []string{"C", "D"}, Scores: []float64{0.95, 0.1}},
	}}
	r := New(backend)

	results, err := r.BatchRetrieve(context.Background(), []string{"q"}, 2, "en,fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results[0].IDs) != 2 {
		t.Fatalf("expected exactly k=2 results, got %v", results[0].IDs)
	}
	if results[0].IDs[0] != "C" {
		t.Fatalf("expected C (score 0.95) first, got %v", results[0].IDs)
	}
}

func TestBatchRetrieveComparative_FixesQIDPerRow(t *testing.T) {
	backend := &fakeBackend{byFilter: map[string]Result{
		"|Q1": {IDs: []string{"Q1_en_1"}, Scores: []float64{0.7}},
		"|Q2": {IDs: []string{"Q2_en_1"}, Scores: []float64{0.6}},
	}}
	r := New(backend)

	groups := [][]string{{"Q1", "Q2"}}
	results, err := r.BatchRetrieveComparative(context.Background(), []string{"q"}, groups, 5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || len(results[0]) != 1 {
		t.Fatalf("unexpected shape: %+v", results)
	}
	got := results[0][0]
	if len(got.IDs) != 2 || got.IDs[0] != "Q1_en_1" || got.IDs[1] != "Q2_en_1" {
		t.Fatalf("expected concatenated ids in row order, got %v", got.IDs)
	}
}

func TestSplitLanguages(t *testing.T) {
	if got := splitLanguages(""); got != nil {
		t.Fatalf("expected nil for empty language, got %v", got)
	}
	got := splitLanguages(" en , fr ,")
	if len(got) != 2 || got[0] != "en" || got[1] != "fr" {
		t.Fatalf("unexpected split: %v", got)
	}
}
