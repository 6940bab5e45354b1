package store

import (
	"strings"
	"testing"

	"wikidump/internal/wikidata"
)

func TestBuildBulkIDsSQL_PlaceholdersAndArgs(t *testing.T) {
	records := []wikidata.IDRecord{
		{ID: "Q1", InWikipedia: true, IsProperty: false},
		{ID: "P31", InWikipedia: false, IsProperty: true},
	}

	query, args := buildBulkIDsSQL(records)

	if !strings.Contains(query, "($1, $2, $3), ($4, $5, $6)") {
		t.Fatalf("expected two placeholder groups, got query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (id) DO UPDATE SET") {
		t.Fatalf("expected conflict clause, got query: %s", query)
	}
	if !strings.Contains(query, "in_wikipedia = wikidata_ids.in_wikipedia OR excluded.in_wikipedia") {
		t.Fatalf("expected monotone-OR merge for in_wikipedia, got query: %s", query)
	}

	want := []any{"Q1", true, false, "P31", false, true}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d: %v", len(want), len(args), args)
	}
	for i, w := range want {
		if args[i] != w {
			t.Errorf("arg %d = %v, want %v", i, args[i], w)
		}
	}
}

func TestBuildBulkIDsSQL_Empty(t *testing.T) {
	query, args := buildBulkIDsSQL(nil)
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
	if !strings.Contains(query, "VALUES ") {
		t.Fatalf("expected a VALUES clause even with no rows, got: %s", query)
	}
}

func TestBuildBulkIDsSQL_DuplicateIDsMergedNotRepeated(t *testing.T) {
	records := []wikidata.IDRecord{
		{ID: "P31", InWikipedia: false, IsProperty: true},
		{ID: "Q5", InWikipedia: false, IsProperty: false},
		{ID: "P31", InWikipedia: false, IsProperty: true},
		{ID: "Q5", InWikipedia: true, IsProperty: false},
	}

	query, args := buildBulkIDsSQL(records)

	// Exactly one placeholder group per distinct id, never the same
	// conflict key twice in one statement.
	if !strings.Contains(query, "($1, $2, $3), ($4, $5, $6)") {
		t.Fatalf("expected exactly two placeholder groups after merge, got query: %s", query)
	}
	if strings.Count(query, "($") != 2 {
		t.Fatalf("expected 2 value groups for 2 distinct ids, got query: %s", query)
	}

	want := []any{"P31", false, true, "Q5", true, false}
	if len(args) != len(want) {
		t.Fatalf("expected %d args after merge, got %d: %v", len(want), len(args), args)
	}
	for i, w := range want {
		if args[i] != w {
			t.Errorf("arg %d = %v, want %v", i, args[i], w)
		}
	}
}

func TestMergeIDRecords_ORWidensFlagsAcrossDuplicates(t *testing.T) {
	records := []wikidata.IDRecord{
		{ID: "Q1", InWikipedia: false, IsProperty: false},
		{ID: "Q1", InWikipedia: true, IsProperty: false},
		{ID: "Q1", InWikipedia: false, IsProperty: true},
	}

	merged := mergeIDRecords(records)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged record, got %d: %v", len(merged), merged)
	}
	want := wikidata.IDRecord{ID: "Q1", InWikipedia: true, IsProperty: true}
	if merged[0] != want {
		t.Fatalf("merged record = %+v, want %+v", merged[0], want)
	}
}

func TestMergeIDRecords_PreservesFirstSeenOrder(t *testing.T) {
	records := []wikidata.IDRecord{
		{ID: "Q5"},
		{ID: "P31"},
		{ID: "Q5"},
		{ID: "Q999"},
	}

	merged := mergeIDRecords(records)
	var ids []string
	for _, r := range merged {
		ids = append(ids, r.ID)
	}
	want := []string{"Q5", "P31", "Q999"}
	if len(ids) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}
}
