package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"wikidump/internal/wikidata"
)

// IdStore persists the identifiers Stage A discovers, with the monotone-OR
// merge rule from the original add_bulk_ids: in_wikipedia/is_property only
// ever flip false->true across repeated upserts of the same id.
type IdStore struct {
	pool *pgxpool.Pool
}

// NewIdStore opens IdStore against pool, creating its table if absent.
func NewIdStore(ctx context.Context, pool *pgxpool.Pool) (*IdStore, error) {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS wikidata_ids (
	id TEXT PRIMARY KEY,
	in_wikipedia BOOLEAN NOT NULL DEFAULT false,
	is_property BOOLEAN NOT NULL DEFAULT false
)`)
	if err != nil {
		return nil, fmt.Errorf("store: bootstrap wikidata_ids: %w", err)
	}
	return &IdStore{pool: pool}, nil
}

// UpsertBulk merges records into the store. Within a single call, and
// across repeated calls for the same id, in_wikipedia/is_property are
// widened with OR, never narrowed.
func (s *IdStore) UpsertBulk(ctx context.Context, records []wikidata.IDRecord) error {
	if len(records) == 0 {
		return nil
	}
	query, args := buildBulkIDsSQL(records)
	_, err := s.pool.Exec(ctx, query, args...)
	return err
}

// mergeIDRecords folds records sharing an id into a single entry per id,
// OR-widening in_wikipedia/is_property across every occurrence, preserving
// each id's first-seen position. The Python original never needed this:
// add_bulk_ids ran one parameterized statement per row, so a duplicate id
// within a batch just meant two round trips to the same row. A single
// multi-row INSERT ... ON CONFLICT DO UPDATE cannot affect the same row
// twice (Postgres raises 21000), and Stage A's batches routinely repeat
// ids (a property like P31, or an item like Q5, recurs across thousands
// of entities, and even within one entity's claims/qualifiers) — so the
// merge has to happen here, in Go, before the statement is built.
func mergeIDRecords(records []wikidata.IDRecord) []wikidata.IDRecord {
	index := make(map[string]int, len(records))
	merged := make([]wikidata.IDRecord, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			merged[i].InWikipedia = merged[i].InWikipedia || r.InWikipedia
			merged[i].IsProperty = merged[i].IsProperty || r.IsProperty
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, r)
	}
	return merged
}

// buildBulkIDsSQL renders a single multi-row INSERT ... ON CONFLICT DO
// UPDATE statement for records, with the OR-widening merge rule, grounded
// on wikidataDB.py's add_bulk_ids. records are merged by id first (see
// mergeIDRecords) so the statement never presents the same conflict key
// twice. Split out for testing without a DB.
func buildBulkIDsSQL(records []wikidata.IDRecord) (string, []any) {
	records = mergeIDRecords(records)

	var b strings.Builder
	b.WriteString("INSERT INTO wikidata_ids (id, in_wikipedia, is_property) VALUES ")
	args := make([]any, 0, len(records)*3)
	for i, r := range records {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 3
		fmt.Fprintf(&b, "($%d, $%d, $%d)", n+1, n+2, n+3)
		args = append(args, r.ID, r.InWikipedia, r.IsProperty)
	}
	b.WriteString(` ON CONFLICT (id) DO UPDATE SET
	in_wikipedia = wikidata_ids.in_wikipedia OR excluded.in_wikipedia,
	is_property = wikidata_ids.is_property OR excluded.is_property`)
	return b.String(), args
}

// Get retrieves a single id record.
func (s *IdStore) Get(ctx context.Context, id string) (wikidata.IDRecord, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, in_wikipedia, is_property FROM wikidata_ids WHERE id = $1`, id)
	var rec wikidata.IDRecord
	if err := row.Scan(&rec.ID, &rec.InWikipedia, &rec.IsProperty); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return wikidata.IDRecord{}, false, nil
		}
		return wikidata.IDRecord{}, false, err
	}
	return rec, true, nil
}

func (s *IdStore) Close() { s.pool.Close() }
