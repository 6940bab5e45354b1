package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgFullText struct{ pool *pgxpool.Pool }

// NewPostgresFullText opens a keyword backend over pool, creating its
// table if absent.
func NewPostgresFullText(ctx context.Context, pool *pgxpool.Pool) (FullTextSearch, error) {
	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	ts tsvector GENERATED ALWAYS AS (to_tsvector('simple', coalesce(text,''))) STORED
)`); err != nil {
		return nil, fmt.Errorf("index: bootstrap chunks: %w", err)
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS chunks_ts_idx ON chunks USING GIN (ts)`); err != nil {
		return nil, fmt.Errorf("index: bootstrap chunks_ts_idx: %w", err)
	}
	return &pgFullText{pool: pool}, nil
}

func (p *pgFullText) Index(ctx context.Context, id, text string, metadata map[string]string) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO chunks (id, text, metadata) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET text = excluded.text, metadata = excluded.metadata
`, id, text, orEmpty(metadata))
	return err
}

func (p *pgFullText) Remove(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM chunks WHERE id = $1`, id)
	return err
}

// Search ranks real matches first via websearch_to_tsquery, then falls back
// to a score of 0 for every row the filter admits, so a query with no
// token overlap at all still returns k candidates rather than none.
func (p *pgFullText) Search(ctx context.Context, query string, k int, filter map[string]string) ([]SearchResult, error) {
	if k <= 0 {
		k = 10
	}
	q := strings.TrimSpace(query)

	rows, err := p.pool.Query(ctx, `
WITH q AS (SELECT websearch_to_tsquery('simple', $1) AS tq)
SELECT id,
       CASE WHEN ts @@ (SELECT tq FROM q) THEN ts_rank(ts, (SELECT tq FROM q)) ELSE 0 END AS score,
       left(text, 160) AS snippet, text, metadata
FROM chunks
WHERE metadata @> $2
ORDER BY (ts @@ (SELECT tq FROM q)) DESC, score DESC
LIMIT $3
`, q, orEmpty(filter), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SearchResult, 0, k)
	for rows.Next() {
		var r SearchResult
		var md map[string]string
		if err := rows.Scan(&r.ID, &r.Score, &r.Snippet, &r.Text, &md); err != nil {
			return nil, err
		}
		r.Metadata = md
		out = append(out, r)
	}
	return out, rows.Err()
}

// orEmpty ensures a nil map is never passed where the JSONB column is
// NOT NULL or a @> containment check needs a value to compare against.
func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
