package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgVector struct {
	pool       *pgxpool.Pool
	dimensions int
	metric     string // cosine|l2|ip
}

// NewPostgresVector opens a pgvector-backed dense similarity store, creating
// its table and the vector extension if absent.
func NewPostgresVector(ctx context.Context, pool *pgxpool.Pool, dimensions int, metric string) (VectorStore, error) {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return nil, fmt.Errorf("index: enable pgvector extension: %w", err)
	}
	vecType := "vector"
	if dimensions > 0 {
		vecType = fmt.Sprintf("vector(%d)", dimensions)
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS embeddings (
	id TEXT PRIMARY KEY,
	vec %s,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb
)`, vecType)); err != nil {
		return nil, fmt.Errorf("index: bootstrap embeddings: %w", err)
	}
	return &pgVector{pool: pool, dimensions: dimensions, metric: strings.ToLower(strings.TrimSpace(metric))}, nil
}

func (p *pgVector) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO embeddings (id, vec, metadata) VALUES ($1, $2::vector, $3)
ON CONFLICT (id) DO UPDATE SET vec = excluded.vec, metadata = excluded.metadata
`, id, toVectorLiteral(vector), orEmpty(metadata))
	return err
}

func (p *pgVector) Delete(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM embeddings WHERE id = $1`, id)
	return err
}

func (p *pgVector) SimilaritySearch(ctx context.Context, vector []float32, k int, filter map[string]string) ([]VectorResult, error) {
	if k <= 0 {
		k = 10
	}
	op, scoreExpr := "<=>", "1 - (vec <=> $1::vector)"
	switch p.metric {
	case "l2", "euclidean":
		op, scoreExpr = "<->", "-(vec <-> $1::vector)"
	case "ip", "dot":
		op, scoreExpr = "<#>", "-(vec <#> $1::vector)"
	}
	query := fmt.Sprintf(`SELECT id, %s AS score, metadata FROM embeddings WHERE metadata @> $3 ORDER BY vec %s $1::vector LIMIT $2`, scoreExpr, op)
	rows, err := p.pool.Query(ctx, query, toVectorLiteral(vector), k, orEmpty(filter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]VectorResult, 0, k)
	for rows.Next() {
		var r VectorResult
		var md map[string]string
		if err := rows.Scan(&r.ID, &r.Score, &md); err != nil {
			return nil, err
		}
		r.Metadata = md
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *pgVector) Dimension() int { return p.dimensions }

func (p *pgVector) Close() { p.pool.Close() }

func toVectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%g", x)
	}
	b.WriteByte(']')
	return b.String()
}
