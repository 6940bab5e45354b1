package store

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EmbedCache persists id -> embedding vector, with conflict-ignore upsert
// semantics matching create_cache_embedding_model's add_bulk_cache. Vectors
// are stored as base64 of their little-endian float32 bytes, the same wire
// shape as EmbeddingType.process_bind_param/process_result_value.
type EmbedCache struct {
	pool *pgxpool.Pool
}

// NewEmbedCache opens EmbedCache against pool, creating its table if absent.
func NewEmbedCache(ctx context.Context, pool *pgxpool.Pool) (*EmbedCache, error) {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS embed_cache (
	id TEXT PRIMARY KEY,
	embedding TEXT NOT NULL
)`)
	if err != nil {
		return nil, fmt.Errorf("store: bootstrap embed_cache: %w", err)
	}
	return &EmbedCache{pool: pool}, nil
}

// EncodeEmbedding renders vec as base64 of its little-endian float32 bytes.
func EncodeEmbedding(vec []float32) string {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeEmbedding reverses EncodeEmbedding.
func DecodeEmbedding(s string) ([]float32, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("store: decode embedding: %w", err)
	}
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("store: decode embedding: length %d not a multiple of 4", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}

// Get retrieves a cached embedding by id.
func (c *EmbedCache) Get(ctx context.Context, id string) ([]float32, bool, error) {
	row := c.pool.QueryRow(ctx, `SELECT embedding FROM embed_cache WHERE id = $1`, id)
	var encoded string
	if err := row.Scan(&encoded); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, false, nil
		}
		return nil, false, err
	}
	vec, err := DecodeEmbedding(encoded)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// UpsertBulk inserts embeddings, skipping any id already cached.
func (c *EmbedCache) UpsertBulk(ctx context.Context, items map[string][]float32) error {
	if len(items) == 0 {
		return nil
	}
	query, args := buildBulkEmbedCacheSQL(items)
	_, err := c.pool.Exec(ctx, query, args...)
	return err
}

func buildBulkEmbedCacheSQL(items map[string][]float32) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO embed_cache (id, embedding) VALUES ")
	args := make([]any, 0, len(items)*2)
	i := 0
	for id, vec := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 2
		fmt.Fprintf(&b, "($%d, $%d)", n+1, n+2)
		args = append(args, id, EncodeEmbedding(vec))
		i++
	}
	b.WriteString(" ON CONFLICT (id) DO NOTHING")
	return b.String(), args
}

func (c *EmbedCache) Close() { c.pool.Close() }
