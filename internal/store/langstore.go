package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"wikidump/internal/wikidata"
)

// LangStore persists the per-language projection Stage B produces
// (wikidata.LangEntity), with conflict-ignore upsert semantics: a second
// write for an id already present is a no-op, matching add_bulk_entities'
// "ON CONFLICT DO NOTHING". It also satisfies textify.LabelLookup, resolving
// both item (QID) and property (PID) labels from the same table, the way
// the original get_label queries a single WikidataItem table for both.
type LangStore struct {
	pool *pgxpool.Pool
}

// NewLangStore opens LangStore against pool, creating its table if absent.
func NewLangStore(ctx context.Context, pool *pgxpool.Pool) (*LangStore, error) {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS lang_entities (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	aliases JSONB NOT NULL DEFAULT '[]'::jsonb,
	claims JSONB NOT NULL DEFAULT '{}'::jsonb
)`)
	if err != nil {
		return nil, fmt.Errorf("store: bootstrap lang_entities: %w", err)
	}
	return &LangStore{pool: pool}, nil
}

// UpsertBulk inserts entities, skipping any id already present.
func (s *LangStore) UpsertBulk(ctx context.Context, entities []wikidata.LangEntity) error {
	if len(entities) == 0 {
		return nil
	}
	query, args, err := buildBulkLangEntitiesSQL(entities)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, query, args...)
	return err
}

func buildBulkLangEntitiesSQL(entities []wikidata.LangEntity) (string, []any, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO lang_entities (id, label, description, aliases, claims) VALUES ")
	args := make([]any, 0, len(entities)*5)
	for i, e := range entities {
		aliasesJSON, err := json.Marshal(e.Aliases)
		if err != nil {
			return "", nil, fmt.Errorf("store: marshal aliases for %s: %w", e.ID, err)
		}
		claimsJSON, err := json.Marshal(e.Claims)
		if err != nil {
			return "", nil, fmt.Errorf("store: marshal claims for %s: %w", e.ID, err)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, e.ID, e.Label, e.Description, aliasesJSON, claimsJSON)
	}
	b.WriteString(" ON CONFLICT (id) DO NOTHING")
	return b.String(), args, nil
}

// Get retrieves a single projected entity.
func (s *LangStore) Get(ctx context.Context, id string) (wikidata.LangEntity, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, label, description, aliases, claims FROM lang_entities WHERE id = $1`, id)
	var e wikidata.LangEntity
	var aliasesJSON, claimsJSON []byte
	if err := row.Scan(&e.ID, &e.Label, &e.Description, &aliasesJSON, &claimsJSON); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return wikidata.LangEntity{}, false, nil
		}
		return wikidata.LangEntity{}, false, err
	}
	if err := json.Unmarshal(aliasesJSON, &e.Aliases); err != nil {
		return wikidata.LangEntity{}, false, fmt.Errorf("store: unmarshal aliases for %s: %w", id, err)
	}
	if err := json.Unmarshal(claimsJSON, &e.Claims); err != nil {
		return wikidata.LangEntity{}, false, fmt.Errorf("store: unmarshal claims for %s: %w", id, err)
	}
	return e, true, nil
}

// Label resolves id's label, satisfying textify.LabelLookup.
func (s *LangStore) Label(ctx context.Context, id string) (string, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT label FROM lang_entities WHERE id = $1`, id)
	var label string
	if err := row.Scan(&label); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return "", false, nil
		}
		return "", false, err
	}
	return label, label != "", nil
}

func (s *LangStore) Close() { s.pool.Close() }
