package store

import (
	"strings"
	"testing"
)

func TestEncodeDecodeEmbedding_RoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -3.25, 1e10, -1e-10}

	encoded := EncodeEmbedding(vec)
	decoded, err := DecodeEmbedding(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(decoded) != len(vec) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(vec))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("decoded[%d] = %v, want %v", i, decoded[i], vec[i])
		}
	}
}

func TestEncodeEmbedding_Empty(t *testing.T) {
	encoded := EncodeEmbedding(nil)
	decoded, err := DecodeEmbedding(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty vector, got %v", decoded)
	}
}

func TestDecodeEmbedding_InvalidLength(t *testing.T) {
	// three raw bytes, not a multiple of 4, base64-encoded.
	_, err := DecodeEmbedding("QUJD")
	if err == nil {
		t.Fatal("expected an error for a byte length not a multiple of 4")
	}
}

func TestBuildBulkEmbedCacheSQL_PlaceholdersAndArgs(t *testing.T) {
	items := map[string][]float32{
		"Q1_en_0": {1, 2, 3},
	}
	query, args := buildBulkEmbedCacheSQL(items)

	if !strings.Contains(query, "($1, $2)") {
		t.Fatalf("expected one placeholder group, got query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (id) DO NOTHING") {
		t.Fatalf("expected conflict-ignore clause, got query: %s", query)
	}
	if len(args) != 2 || args[0] != "Q1_en_0" {
		t.Fatalf("unexpected args: %v", args)
	}

	decoded, err := DecodeEmbedding(args[1].(string))
	if err != nil {
		t.Fatalf("unexpected error decoding stored embedding: %v", err)
	}
	if len(decoded) != 3 || decoded[0] != 1 || decoded[1] != 2 || decoded[2] != 3 {
		t.Errorf("decoded = %v, want [1 2 3]", decoded)
	}
}
